package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qrcraft/qrcraft/internal/app"
	"github.com/qrcraft/qrcraft/internal/config"
	sshsrv "github.com/qrcraft/qrcraft/internal/ssh"
	"github.com/qrcraft/qrcraft/internal/tsnet"
	"github.com/qrcraft/qrcraft/internal/tui"
	"github.com/qrcraft/qrcraft/internal/web"
)

type serveOptions struct {
	sshAddr       string
	webAddr       string
	sshOnly       bool
	webOnly       bool
	tsnet         bool
	tsnetHostname string
}

var serveOpts serveOptions

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Serve the preview over SSH and the web",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveOpts)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveOpts.sshAddr, "ssh-addr", "", "SSH listen address (overrides SSH_ADDR, default :2222)")
	f.StringVar(&serveOpts.webAddr, "web-addr", "", "web listen address (overrides WEB_ADDR, default 127.0.0.1:8080)")
	f.BoolVar(&serveOpts.sshOnly, "ssh-only", false, "start the SSH server only")
	f.BoolVar(&serveOpts.webOnly, "web-only", false, "start the web server only")
	f.BoolVar(&serveOpts.tsnet, "tsnet", false, "expose via Tailscale mesh (requires -tags tsnet build)")
	f.StringVar(&serveOpts.tsnetHostname, "tsnet-hostname", "", "Tailscale hostname (overrides TSNET_HOSTNAME, default qrcraft)")
	serveCmd.MarkFlagsMutuallyExclusive("ssh-only", "web-only")
	rootCmd.AddCommand(serveCmd)
}

func applyServeOverrides(cfg *config.Config, opts serveOptions) {
	if opts.sshAddr != "" {
		cfg.SSHAddr = opts.sshAddr
	}
	if opts.webAddr != "" {
		cfg.WebAddr = opts.webAddr
	}
	if opts.tsnetHostname != "" {
		cfg.TsnetHostname = opts.tsnetHostname
	}
}

func validateWebExposure(webAddr string, sshOnly, tsnetEnabled bool) error {
	if sshOnly || tsnetEnabled {
		return nil
	}
	if web.IsLocalOnlyAddr(webAddr) {
		return nil
	}
	return fmt.Errorf("unsafe web bind %q: use --tsnet or bind to localhost only", webAddr)
}

// runServe starts the SSH and web surfaces and blocks until interrupted.
func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	applyServeOverrides(cfg, opts)
	if err := validateWebExposure(cfg.WebAddr, opts.sshOnly, opts.tsnet); err != nil {
		return err
	}
	if opts.tsnet && !tsnet.Available() {
		return fmt.Errorf("--tsnet needs a binary built with: go build -tags tsnet")
	}

	logger := app.NewConsoleLogger(os.Stderr, cfg.AppName, cfg.LogLevel)
	svc, err := app.NewServices(cfg)
	if err != nil {
		return err
	}
	if err := app.EnsureDirs(cfg, logger); err != nil {
		return err
	}

	shutdown := app.NewShutdown(logger)
	defer shutdown.Run()

	var sshServer *sshsrv.Server
	if !opts.webOnly {
		sshServer, err = sshsrv.New(sshsrv.Config{
			Addr:       cfg.SSHAddr,
			HostKeyDir: cfg.DataDir,
			Logger:     logger.With("component", "ssh"),
			Deps: tui.Deps{
				Title:    cfg.AppName,
				Defaults: svc.Defaults(),
				Encoder:  svc.Encoder,
				Exporter: svc.Exporter,
				Saver:    svc.Saver,
			},
		})
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		if err := sshServer.Start(); err != nil {
			return err
		}
		shutdown.AddCloser("ssh", sshServer.Stop)
	}

	var webServer *web.Server
	if !opts.sshOnly {
		webServer = web.New(web.Config{
			Addr:     cfg.WebAddr,
			Logger:   logger.With("component", "web"),
			Defaults: svc.Defaults(),
			Encoder:  svc.Encoder,
			Exporter: svc.Exporter,
			Margin:   cfg.Margin,
			Level:    svc.Encoder.Level(),

			TrustedOrigins: cfg.TrustedOrigins,
		})
		if err := webServer.Start(); err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		shutdown.AddCloser("web", webServer.Stop)
	}

	if opts.tsnet {
		if err := serveTailnet(cfg, sshServer, webServer, shutdown, logger); err != nil {
			return err
		}
	}

	logger.Info("qrcraft serve mode ready", "ssh", sshServer != nil, "web", webServer != nil, "tsnet", opts.tsnet)
	shutdown.Wait(ctx)
	return nil
}

// serveTailnet exposes SSH on :22 and the web surface on :80 of the tailnet
// node.
func serveTailnet(cfg *config.Config, sshServer *sshsrv.Server, webServer *web.Server, shutdown *app.Shutdown, logger *slog.Logger) error {
	node, err := tsnet.New(tsnet.Config{
		Hostname: cfg.TsnetHostname,
		StateDir: filepath.Join(cfg.DataDir, "tsnet"),
		Logger:   logger.With("component", "tsnet"),
	})
	if err != nil {
		return fmt.Errorf("tsnet: %w", err)
	}
	shutdown.AddCloser("tsnet", node.Close)

	var endpoints []tsnet.Endpoint
	if sshServer != nil {
		endpoints = append(endpoints, tsnet.Endpoint{Name: "ssh", Addr: ":22", Surface: sshServer})
	}
	if webServer != nil {
		endpoints = append(endpoints, tsnet.Endpoint{Name: "web", Addr: ":80", Surface: webServer})
	}
	live := tsnet.Expose(node, endpoints, logger)
	logger.Info("tailnet ready", "host", cfg.TsnetHostname, "endpoints", live)
	return nil
}
