package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/qrcraft/qrcraft/internal/app"
	"github.com/qrcraft/qrcraft/internal/clipboard"
	"github.com/qrcraft/qrcraft/internal/share"
	"github.com/qrcraft/qrcraft/internal/tui"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "qrcraft",
	Short: "Live QR code preview, export and sharing",
	Long: "qrcraft renders a QR code preview as you type, then copies the text, " +
		"saves the code as a PNG or shares it. Run without arguments for the terminal UI, " +
		"or use serve to expose the same preview over SSH and the web.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLocal()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runLocal is the default mode: the terminal UI on this machine.
func runLocal() error {
	if err := requireTerminal(); err != nil {
		return err
	}
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	bus := tui.NewEventBus(512)
	logger := app.NewTUILogger(bus, cfg.LogLevel)

	svc, err := app.NewServices(cfg)
	if err != nil {
		return err
	}
	if err := app.EnsureDirs(cfg, logger); err != nil {
		return err
	}
	logger.Info("starting qrcraft", "outputDir", cfg.OutputDir, "recovery", cfg.Recovery)

	model := tui.New(tui.Deps{
		Title:     cfg.AppName,
		Defaults:  svc.Defaults(),
		Encoder:   svc.Encoder,
		Exporter:  svc.Exporter,
		Saver:     svc.Saver,
		Clipboard: clipboard.WithRetry(clipboard.System{}, 3),
		Opener:    share.BrowserOpener{},
		Logger:    logger,
		Bus:       bus,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
