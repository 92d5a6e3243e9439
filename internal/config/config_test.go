package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	t.Setenv(hasuraURLEnvKey, "")
	t.Setenv(dataDirEnvKey, "")
	t.Setenv(webhookSecretEnvKey, "")
	t.Setenv(listenAddrEnvKey, "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setTestConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.Uploads.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Fatalf("expected default max upload bytes, got %d", cfg.Uploads.MaxUploadBytes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setTestConfigDir(t)
	t.Setenv(hasuraURLEnvKey, "http://hasura:8080")
	t.Setenv(dataDirEnvKey, "/srv/uploads")
	t.Setenv(webhookSecretEnvKey, "shh")
	t.Setenv(listenAddrEnvKey, "0.0.0.0:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HasuraURL != "http://hasura:8080" {
		t.Fatalf("expected hasura url from env, got %q", cfg.HasuraURL)
	}
	if cfg.DataDir != "/srv/uploads" {
		t.Fatalf("expected data dir from env, got %q", cfg.DataDir)
	}
	if cfg.WebhookSecret != "shh" {
		t.Fatalf("expected webhook secret from env, got %q", cfg.WebhookSecret)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("expected listen addr from env, got %q", cfg.ListenAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := setTestConfigDir(t)
	content := "hasura_url = \"http://hasura:8080\"\ndata_dir = \"/srv/uploads\"\nwebhook_secret = \"shh\"\n\n[uploads]\nmax_upload_bytes = 1024\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HasuraURL != "http://hasura:8080" {
		t.Fatalf("expected hasura url from file, got %q", cfg.HasuraURL)
	}
	if cfg.Uploads.MaxUploadBytes != 1024 {
		t.Fatalf("expected max upload bytes from file, got %d", cfg.Uploads.MaxUploadBytes)
	}
	if cfg.Uploads.MultipartMaxMemory != DefaultMultipartMaxMemory {
		t.Fatalf("expected multipart memory default, got %d", cfg.Uploads.MultipartMaxMemory)
	}
}

func TestValidateFailsFast(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "missing hasura url", cfg: Config{DataDir: "/d", WebhookSecret: "s"}, want: "hasura_url"},
		{name: "missing data dir", cfg: Config{HasuraURL: "http://h", WebhookSecret: "s"}, want: "data_dir"},
		{name: "missing secret", cfg: Config{HasuraURL: "http://h", DataDir: "/d"}, want: "webhook_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %s, got %v", tt.want, err)
			}
		})
	}
}

func TestSetKeyRoundTrip(t *testing.T) {
	dir := setTestConfigDir(t)
	path := filepath.Join(dir, configFileName)

	if err := SetKey(path, "hasura_url", "http://hasura:8080"); err != nil {
		t.Fatalf("set hasura_url: %v", err)
	}
	if err := SetKey(path, "uploads.max_upload_bytes", "2048"); err != nil {
		t.Fatalf("set max_upload_bytes: %v", err)
	}
	if err := SetKey(path, "bogus", "x"); err == nil {
		t.Fatal("expected unknown key error")
	}
	if err := SetKey(path, "uploads.max_upload_bytes", "-1"); err == nil {
		t.Fatal("expected positive integer error")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HasuraURL != "http://hasura:8080" {
		t.Fatalf("expected persisted hasura url, got %q", cfg.HasuraURL)
	}
	if cfg.Uploads.MaxUploadBytes != 2048 {
		t.Fatalf("expected persisted max upload bytes, got %d", cfg.Uploads.MaxUploadBytes)
	}
}
