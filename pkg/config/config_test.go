package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/dbgasm/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[assembly]
k = 31
formats = ["fasta", "svg"]

[cache]
backend = "redis"
ttl = "36h"
redis_addr = "cache:6379"
redis_db = 2

[server]
addr = ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Assembly.K != 31 {
		t.Errorf("K = %d, want 31", cfg.Assembly.K)
	}
	if cfg.Assembly.LineWidth != DefaultLineWidth {
		t.Errorf("LineWidth = %d, want default %d", cfg.Assembly.LineWidth, DefaultLineWidth)
	}
	if !slices.Equal(cfg.Assembly.Formats, []string{"fasta", "svg"}) {
		t.Errorf("Formats = %v", cfg.Assembly.Formats)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("TTL = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"bad toml", "[assembly\nk = 3", errors.ErrCodeInvalidConfig},
		{"bad duration", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
		{"zero k", "[assembly]\nk = 0", errors.ErrCodeInvalidKmer},
		{"negative width", "[assembly]\nline_width = -1", errors.ErrCodeInvalidInput},
		{"unknown backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[cache]\nbackend = \"mongo\"\nmongo_uri = \"\"", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() without file error: %v", err)
	}
	if cfg.Assembly.K != DefaultK {
		t.Errorf("K = %d, want %d", cfg.Assembly.K, DefaultK)
	}

	path := filepath.Join(dir, appName, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[assembly]\nk = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Assembly.K != 5 {
		t.Errorf("K = %d, want 5", cfg.Assembly.K)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "dbgasm", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
