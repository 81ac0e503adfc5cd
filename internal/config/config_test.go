package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := v.GetInt("server.port"); got != 8090 {
		t.Errorf("server.port = %d, want 8090", got)
	}
	if got := v.GetString("logging.level"); got != "info" {
		t.Errorf("logging.level = %q, want info", got)
	}
	if got := v.GetInt("presets.backup_retention"); got != 5 {
		t.Errorf("presets.backup_retention = %d, want 5", got)
	}
	if got := Addr(v); got != "127.0.0.1:8090" {
		t.Errorf("Addr = %q, want 127.0.0.1:8090", got)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "styleserver.yaml")
	content := "server:\n  port: 9191\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := v.GetInt("server.port"); got != 9191 {
		t.Errorf("server.port = %d, want 9191", got)
	}
	if got := v.GetString("logging.level"); got != "debug" {
		t.Errorf("logging.level = %q, want debug", got)
	}
	// Untouched keys keep their defaults.
	if got := v.GetString("logging.format"); got != "json" {
		t.Errorf("logging.format = %q, want json", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OC_SERVER_PORT", "7070")

	v, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetInt("server.port"); got != 7070 {
		t.Errorf("server.port = %d, want 7070 from OC_SERVER_PORT", got)
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "styleserver.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:::"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
