package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/qrcraft/qrcraft/internal/config"
)

var errNotTerminal = errors.New("stdin is not a terminal; use `qrcraft render` for scripted output")

func requireTerminal() error {
	if !stdinIsTerminal() {
		return errNotTerminal
	}
	return nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// loadConfig applies the dotenv file, for keys not already set, and reads
// the configuration.
func loadConfig(envPath string) (*config.Config, error) {
	if envPath != "" {
		if err := config.LoadDotEnvFile(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
