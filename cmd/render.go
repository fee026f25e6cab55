package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrcraft/qrcraft/internal/app"
	qrerrors "github.com/qrcraft/qrcraft/internal/errors"
	"github.com/qrcraft/qrcraft/internal/export"
	"github.com/qrcraft/qrcraft/internal/preview"
)

type renderOptions struct {
	text   string
	size   int
	fg     string
	bg     string
	format string
	out    string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Encode text once and write the QR code as PNG or SVG",
	Example: "  qrcraft render --text https://example.com --size 300 --out code.png\n" +
		"  qrcraft render --text hello --format svg --out -",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("text") {
			return qrerrors.NewInvalidInput("--text is required")
		}
		return runRender(cmd.Context(), renderOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.text, "text", "", "text or URL to encode")
	f.IntVar(&renderOpts.size, "size", 0, "size in pixels before export scaling (default DEFAULT_SIZE)")
	f.StringVar(&renderOpts.fg, "fg", "", "foreground color (default DEFAULT_FOREGROUND)")
	f.StringVar(&renderOpts.bg, "bg", "", "background color (default DEFAULT_BACKGROUND)")
	f.StringVar(&renderOpts.format, "format", "png", "output format: png or svg")
	f.StringVar(&renderOpts.out, "out", "", "output path, - for stdout (default EXPORT_FILENAME in OUTPUT_DIR)")
	rootCmd.AddCommand(renderCmd)
}

// runRender encodes once. Without --out the file goes through the download
// saver, so an existing file is never overwritten.
func runRender(ctx context.Context, opts renderOptions, stdout io.Writer) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := app.NewJSONLogger(os.Stderr, cfg.LogLevel)
	svc, err := app.NewServices(cfg)
	if err != nil {
		return err
	}

	d := svc.Defaults()
	in := preview.Input{
		Payload:    opts.text,
		Size:       d.Size,
		Foreground: d.Foreground,
		Background: d.Background,
	}
	if opts.size != 0 {
		in.Size = opts.size
	}
	in.Size = d.Limits.Normalize(in.Size)
	if opts.fg != "" {
		in.Foreground = opts.fg
	}
	if opts.bg != "" {
		in.Background = opts.bg
	}

	var data []byte
	name := d.ExportFilename
	switch strings.ToLower(opts.format) {
	case "png":
		res := preview.Run(ctx, svc.Encoder, preview.Request{Input: in})
		if res.Err != nil {
			return res.Err
		}
		data, err = svc.Exporter.Export(ctx, res.Image)
		if err != nil {
			return qrerrors.NewExportFailure(err)
		}
	case "svg":
		svg, err := export.SVG(in.Payload, in.Size, cfg.Margin, svc.Encoder.Level(), in.Foreground, in.Background)
		if err != nil {
			return qrerrors.NewEncodeFailure(err)
		}
		data = []byte(svg)
		name = strings.TrimSuffix(name, ".png") + ".svg"
	default:
		return qrerrors.NewInvalidInput(fmt.Sprintf("unknown format %q (want png or svg)", opts.format))
	}

	switch opts.out {
	case "-":
		_, err = stdout.Write(data)
		return err
	case "":
		if err := app.EnsureDirs(cfg, logger); err != nil {
			return err
		}
		path, err := svc.Saver.Save(data, name)
		if err != nil {
			return qrerrors.NewExportFailure(err)
		}
		logger.Info("qr code written", "path", path, "bytes", len(data))
		fmt.Fprintln(stdout, path)
		return nil
	default:
		if err := os.WriteFile(opts.out, data, 0o644); err != nil {
			return qrerrors.NewExportFailure(err)
		}
		logger.Info("qr code written", "path", opts.out, "bytes", len(data))
		return nil
	}
}
