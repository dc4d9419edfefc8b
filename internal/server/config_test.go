package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/npv-calc/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) error = %v", path, err)
		}

		if cfg.Address != constants.DefaultServerAddress {
			t.Fatalf("expected default address, got %q", cfg.Address)
		}
		if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
			t.Fatalf("expected default max upload size, got %d", cfg.UploadSizeBytes())
		}
		if cfg.SessionTTLDuration() != 2*time.Hour {
			t.Fatalf("expected default session TTL of 2h, got %s", cfg.SessionTTLDuration())
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.DefaultServerConfigFile)

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
sessionTTL: 15m
logging:
  level: debug
  format: console
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.SessionTTLDuration() != 15*time.Minute {
		t.Fatalf("expected 15m session TTL, got %s", cfg.SessionTTLDuration())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad size":    "maxUploadSize: invalid",
		"bad ttl":     "sessionTTL: soon",
		"broken yaml": "address: [",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(constants.ServerAddressEnv, "0.0.0.0:7000")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.ApplyEnv()
	if cfg.Address != "0.0.0.0:7000" {
		t.Fatalf("expected env address, got %s", cfg.Address)
	}
}

func TestSetUploadSizeBytes(t *testing.T) {
	cfg, _ := LoadConfig("")
	cfg.SetUploadSizeBytes(0)
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Fatalf("non-positive override must be ignored, got %d", cfg.UploadSizeBytes())
	}
	cfg.SetUploadSizeBytes(1024)
	if cfg.UploadSizeBytes() != 1024 || cfg.MaxUploadSize != "1024" {
		t.Fatalf("expected 1024 bytes, got %d (%s)", cfg.UploadSizeBytes(), cfg.MaxUploadSize)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":      constants.DefaultMaxUploadSizeBytes,
		"512":   512,
		"64b":   64,
		"256K":  256 * 1024,
		"1kb":   1024,
		"10M":   10 * 1024 * 1024,
		" 2MB ": 2 * 1024 * 1024,
		"1G":    1024 * 1024 * 1024,
		"3gb":   3 * 1024 * 1024 * 1024,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Errorf("ParseSize(%q) error = %v", input, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, bad := range []string{"MB", "12Q", "1T"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) expected error", bad)
		}
	}
}
