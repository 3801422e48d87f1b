package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kwheeler/snailmail/internal/model"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.RequestTimeoutSec != 30 {
		t.Errorf("request_timeout_sec = %d", cfg.Server.RequestTimeoutSec)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path default is empty")
	}
}

func TestLoadConfigMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  base_url: https://mail.example.com\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.BaseURL != "https://mail.example.com" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.RequestTimeoutSec != 30 {
		t.Errorf("request_timeout_sec = %d, want default 30", cfg.Server.RequestTimeoutSec)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &model.AppConfig{
		Server:  model.ServerConfig{BaseURL: "https://api.example.com", RequestTimeoutSec: 10},
		Storage: model.StorageConfig{DatabasePath: "/tmp/archive.db"},
		Display: model.DisplayConfig{Theme: "dark"},
	}
	if err := model.SaveConfig(path, in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	out, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.Server.BaseURL != in.Server.BaseURL {
		t.Errorf("base_url = %q, want %q", out.Server.BaseURL, in.Server.BaseURL)
	}
	if out.Server.RequestTimeoutSec != 10 {
		t.Errorf("request_timeout_sec = %d, want 10", out.Server.RequestTimeoutSec)
	}
	if out.Display.Theme != "dark" {
		t.Errorf("theme = %q, want dark", out.Display.Theme)
	}
}

func TestDirectionValid(t *testing.T) {
	for _, d := range []model.Direction{model.DirectionSent, model.DirectionReceived} {
		if !d.Valid() {
			t.Errorf("%q reported invalid", d)
		}
	}
	for _, d := range []model.Direction{"", "both", "SENT"} {
		if d.Valid() {
			t.Errorf("%q reported valid", d)
		}
	}
}

func TestAllowedImageType(t *testing.T) {
	for _, ct := range []string{model.ContentTypeJPEG, model.ContentTypePNG} {
		if !model.AllowedImageType(ct) {
			t.Errorf("%q reported disallowed", ct)
		}
	}
	for _, ct := range []string{"image/gif", "image/webp", "application/pdf", ""} {
		if model.AllowedImageType(ct) {
			t.Errorf("%q reported allowed", ct)
		}
	}
}
