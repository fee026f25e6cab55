package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv() {
	for _, key := range []string{
		"APP_NAME", "LOG_LEVEL", "DATA_DIR", "OUTPUT_DIR",
		"DEFAULT_PAYLOAD", "DEFAULT_SIZE", "SIZE_MIN", "SIZE_MAX", "SIZE_STEP",
		"DEFAULT_FOREGROUND", "DEFAULT_BACKGROUND", "QR_MARGIN", "QR_RECOVERY",
		"COPY_ACK_MS", "ENCODE_STALL_MS",
		"EXPORT_SCALE", "EXPORT_PADDING", "EXPORT_FILENAME",
		"SSH_ADDR", "WEB_ADDR", "TSNET_HOSTNAME", "WEB_TRUSTED_ORIGINS",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "qrcraft" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "qrcraft")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DefaultPayload != "https://example.com" {
		t.Errorf("DefaultPayload = %q", cfg.DefaultPayload)
	}
	if cfg.DefaultSize != 200 || cfg.SizeMin != 100 || cfg.SizeMax != 400 || cfg.SizeStep != 10 {
		t.Errorf("size defaults = %d [%d,%d] step %d, want 200 [100,400] step 10",
			cfg.DefaultSize, cfg.SizeMin, cfg.SizeMax, cfg.SizeStep)
	}
	if cfg.DefaultForeground != "#000000" || cfg.DefaultBackground != "#ffffff" {
		t.Errorf("colors = %q/%q", cfg.DefaultForeground, cfg.DefaultBackground)
	}
	if cfg.CopyAckWindow != 2*time.Second {
		t.Errorf("CopyAckWindow = %v, want 2s", cfg.CopyAckWindow)
	}
	if cfg.ExportScale != 2 {
		t.Errorf("ExportScale = %d, want 2", cfg.ExportScale)
	}
	if cfg.ExportFilename != "qr-code.png" {
		t.Errorf("ExportFilename = %q, want qr-code.png", cfg.ExportFilename)
	}
	if cfg.Margin != 2 {
		t.Errorf("Margin = %d, want 2", cfg.Margin)
	}
	if cfg.WebAddr != "127.0.0.1:8080" {
		t.Errorf("WebAddr = %q", cfg.WebAddr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv()
	t.Setenv("APP_NAME", "qrtest")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_SIZE", "300")
	t.Setenv("COPY_ACK_MS", "500")
	t.Setenv("QR_RECOVERY", "high")
	t.Setenv("DEFAULT_FOREGROUND", "#123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "qrtest" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "qrtest")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.DefaultSize != 300 {
		t.Errorf("DefaultSize = %d, want 300", cfg.DefaultSize)
	}
	if cfg.CopyAckWindow != 500*time.Millisecond {
		t.Errorf("CopyAckWindow = %v, want 500ms", cfg.CopyAckWindow)
	}
	if cfg.Recovery != "high" {
		t.Errorf("Recovery = %q, want high", cfg.Recovery)
	}
}

func TestEmptyDefaultPayloadHonored(t *testing.T) {
	clearEnv()
	t.Setenv("DEFAULT_PAYLOAD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultPayload != "" {
		t.Fatalf("DefaultPayload = %q, want empty", cfg.DefaultPayload)
	}
}

func TestDirResolution(t *testing.T) {
	clearEnv()
	cwd, _ := os.Getwd()

	t.Setenv("OUTPUT_DIR", "downloads")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(cwd, "downloads"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}

	clearEnv()
	t.Setenv("DATA_DIR", "/tmp/qrcraft-test-data")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/tmp/qrcraft-test-data" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "/tmp/qrcraft-test-data")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"default size below range", map[string]string{"DEFAULT_SIZE": "50"}},
		{"inverted range", map[string]string{"SIZE_MIN": "500"}},
		{"zero step", map[string]string{"SIZE_STEP": "0"}},
		{"bad foreground", map[string]string{"DEFAULT_FOREGROUND": "black"}},
		{"bad background", map[string]string{"DEFAULT_BACKGROUND": "#gggggg"}},
		{"bad recovery", map[string]string{"QR_RECOVERY": "extreme"}},
		{"zero scale", map[string]string{"EXPORT_SCALE": "0"}},
		{"filename with dir", map[string]string{"EXPORT_FILENAME": "../qr.png"}},
		{"zero copy window", map[string]string{"COPY_ACK_MS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "twelve")
	if got := envInt("TEST_INT_VAR", 7); got != 7 {
		t.Fatalf("envInt = %d, want 7", got)
	}
	t.Setenv("TEST_INT_VAR", " 12 ")
	if got := envInt("TEST_INT_VAR", 7); got != 12 {
		t.Fatalf("envInt = %d, want 12", got)
	}
}

func TestTrustedOriginsList(t *testing.T) {
	clearEnv()
	t.Setenv("WEB_TRUSTED_ORIGINS", " qr.example.com, ,qrcraft.tail1234.ts.net ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"qr.example.com", "qrcraft.tail1234.ts.net"}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %q, want %q", cfg.TrustedOrigins, want)
	}
	for i := range want {
		if cfg.TrustedOrigins[i] != want[i] {
			t.Fatalf("TrustedOrigins = %q, want %q", cfg.TrustedOrigins, want)
		}
	}
}
