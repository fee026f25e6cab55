package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/qrcraft/qrcraft/internal/qrcode"
)

// Config holds all application configuration.
type Config struct {
	AppName  string
	LogLevel string
	DataDir  string

	// Downloads land here.
	OutputDir string

	// Preview session defaults
	DefaultPayload    string
	DefaultSize       int
	SizeMin           int
	SizeMax           int
	SizeStep          int
	DefaultForeground string
	DefaultBackground string

	// Encoder
	Margin   int
	Recovery string

	// Timing
	CopyAckWindow    time.Duration
	EncodeStallAfter time.Duration

	// Export
	ExportScale    int
	ExportPadding  int
	ExportFilename string

	// Serve mode
	SSHAddr       string
	WebAddr       string
	TsnetHostname string

	// Page hosts besides the request host allowed to open the live socket,
	// e.g. a reverse proxy's public name.
	TrustedOrigins []string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}

	cfg := &Config{
		AppName:  envStr("APP_NAME", "qrcraft"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		DataDir:  resolvePath(cwd, envStr("DATA_DIR", ".data")),

		OutputDir: resolvePath(cwd, envStr("OUTPUT_DIR", ".")),

		DefaultPayload:    envRaw("DEFAULT_PAYLOAD", "https://example.com"),
		DefaultSize:       envInt("DEFAULT_SIZE", 200),
		SizeMin:           envInt("SIZE_MIN", 100),
		SizeMax:           envInt("SIZE_MAX", 400),
		SizeStep:          envInt("SIZE_STEP", 10),
		DefaultForeground: envStr("DEFAULT_FOREGROUND", "#000000"),
		DefaultBackground: envStr("DEFAULT_BACKGROUND", "#ffffff"),

		Margin:   envInt("QR_MARGIN", 2),
		Recovery: envStr("QR_RECOVERY", "medium"),

		CopyAckWindow:    time.Duration(envInt("COPY_ACK_MS", 2000)) * time.Millisecond,
		EncodeStallAfter: time.Duration(envInt("ENCODE_STALL_MS", 5000)) * time.Millisecond,

		ExportScale:    envInt("EXPORT_SCALE", 2),
		ExportPadding:  envInt("EXPORT_PADDING", 16),
		ExportFilename: envStr("EXPORT_FILENAME", "qr-code.png"),

		SSHAddr:       envStr("SSH_ADDR", ":2222"),
		WebAddr:       envStr("WEB_ADDR", "127.0.0.1:8080"),
		TsnetHostname: envStr("TSNET_HOSTNAME", "qrcraft"),

		TrustedOrigins: envList("WEB_TRUSTED_ORIGINS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SizeStep < 1 {
		return fmt.Errorf("SIZE_STEP must be >= 1")
	}
	if c.SizeMin < 1 || c.SizeMax < c.SizeMin {
		return fmt.Errorf("SIZE_MIN/SIZE_MAX must satisfy 1 <= min <= max (got %d, %d)", c.SizeMin, c.SizeMax)
	}
	if c.DefaultSize < c.SizeMin || c.DefaultSize > c.SizeMax {
		return fmt.Errorf("DEFAULT_SIZE %d outside [%d, %d]", c.DefaultSize, c.SizeMin, c.SizeMax)
	}
	if _, err := qrcode.ParseColor(c.DefaultForeground); err != nil {
		return fmt.Errorf("DEFAULT_FOREGROUND: %w", err)
	}
	if _, err := qrcode.ParseColor(c.DefaultBackground); err != nil {
		return fmt.Errorf("DEFAULT_BACKGROUND: %w", err)
	}
	if _, err := qrcode.ParseLevel(c.Recovery); err != nil {
		return fmt.Errorf("QR_RECOVERY: %w", err)
	}
	if c.Margin < 0 {
		return fmt.Errorf("QR_MARGIN must be >= 0")
	}
	if c.ExportScale < 1 {
		return fmt.Errorf("EXPORT_SCALE must be >= 1")
	}
	if c.ExportPadding < 0 {
		return fmt.Errorf("EXPORT_PADDING must be >= 0")
	}
	if c.ExportFilename == "" || filepath.Base(c.ExportFilename) != c.ExportFilename {
		return fmt.Errorf("EXPORT_FILENAME must be a plain file name")
	}
	if c.CopyAckWindow <= 0 {
		return fmt.Errorf("COPY_ACK_MS must be > 0")
	}
	return nil
}

// LoadDotEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment only for keys that are not already set.
func LoadDotEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open dotenv: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}
		if strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan dotenv: %w", err)
	}
	return nil
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envRaw keeps surrounding whitespace; an explicitly empty value is honored.
func envRaw(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// envList splits a comma-separated variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func resolvePath(cwd, value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(cwd, value)
}
