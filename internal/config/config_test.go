package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	os.Unsetenv("APP_DATA_DIR")
	os.Unsetenv("APP_EXPORT_DIR")

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.App.DataDir != "./data/output" {
		t.Errorf("default data dir = %q, want ./data/output", cfg.App.DataDir)
	}
	if cfg.App.ExportDir != "./data/exports" {
		t.Errorf("default export dir = %q, want ./data/exports", cfg.App.ExportDir)
	}

	for _, dir := range []string{cfg.App.DataDir, cfg.App.ExportDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}
