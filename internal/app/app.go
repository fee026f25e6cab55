package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/qrcraft/qrcraft/internal/config"
	"github.com/qrcraft/qrcraft/internal/export"
	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/qrcode"
)

// Services holds the adapters every surface shares. They are stateless, so a
// single set serves any number of preview sessions.
type Services struct {
	Config   *config.Config
	Encoder  *qrcode.Encoder
	Exporter *export.Exporter
	Saver    export.DirSaver
}

// NewServices builds the adapters from configuration.
func NewServices(cfg *config.Config) (*Services, error) {
	level, err := qrcode.ParseLevel(cfg.Recovery)
	if err != nil {
		return nil, fmt.Errorf("recovery level: %w", err)
	}
	return &Services{
		Config:  cfg,
		Encoder: qrcode.NewEncoder(level, cfg.Margin),
		Exporter: export.NewExporter(export.Options{
			Scale:   cfg.ExportScale,
			Padding: cfg.ExportPadding,
		}),
		Saver: export.DirSaver{Dir: cfg.OutputDir},
	}, nil
}

// Defaults returns the seed for a new preview session.
func (s *Services) Defaults() preview.Defaults {
	c := s.Config
	return preview.Defaults{
		Payload:    c.DefaultPayload,
		Size:       c.DefaultSize,
		Foreground: c.DefaultForeground,
		Background: c.DefaultBackground,
		Limits: preview.Limits{
			Min:  c.SizeMin,
			Max:  c.SizeMax,
			Step: c.SizeStep,
		},
		CopyAckWindow:    c.CopyAckWindow,
		EncodeStallAfter: c.EncodeStallAfter,
		ExportFilename:   c.ExportFilename,
	}
}

// EnsureDirs creates the data and output directories.
func EnsureDirs(cfg *config.Config, logger *slog.Logger) error {
	for _, dir := range []string{cfg.DataDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	logger.Debug("directories ready", "dataDir", cfg.DataDir, "outputDir", cfg.OutputDir)
	return nil
}
