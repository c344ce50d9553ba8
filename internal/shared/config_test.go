package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Middleware.Host != "127.0.0.1" || config.Middleware.Port != 8099 {
		t.Errorf("middleware defaults = %s:%d", config.Middleware.Host, config.Middleware.Port)
	}
	if config.Import.StagingSubdir != "Imports" {
		t.Errorf("staging_subdir = %s, want Imports", config.Import.StagingSubdir)
	}
	if config.Import.GapSeconds != 1.0 {
		t.Errorf("gap_seconds = %v, want 1.0", config.Import.GapSeconds)
	}
	if config.VCS.Client != "none" {
		t.Errorf("vcs client = %s, want none", config.VCS.Client)
	}
	if config.Database.Path == "" {
		t.Error("database path is empty")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[middleware]
host = "10.0.0.5"
port = 9001
rate_limit = 25.0

[vcs]
client = "p4"
p4_bin = "/opt/p4/bin/p4"

[import]
staging_subdir = "Bounces"
gap_seconds = 0.5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Middleware.Host != "10.0.0.5" || config.Middleware.Port != 9001 {
			t.Errorf("middleware = %s:%d", config.Middleware.Host, config.Middleware.Port)
		}
		if config.VCS.Client != "p4" || config.VCS.P4Bin != "/opt/p4/bin/p4" {
			t.Errorf("vcs = %+v", config.VCS)
		}
		if config.Import.StagingSubdir != "Bounces" || config.Import.GapSeconds != 0.5 {
			t.Errorf("import = %+v", config.Import)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Fatal("LoadConfig succeeded for a missing file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[middleware\nhost ="), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatal("LoadConfig succeeded for malformed TOML")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile failed: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}
	if config.Middleware.Port != DefaultConfig().Middleware.Port {
		t.Errorf("generated config port = %d", config.Middleware.Port)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Fatal("CreateConfigFile overwrote an existing file")
	}
}
