package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Middleware MiddlewareConfig `toml:"middleware"`
	Host       HostConfig       `toml:"host"`
	VCS        VCSConfig        `toml:"vcs"`
	Import     ImportConfig     `toml:"import"`
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
}

// MiddlewareConfig contains connection settings for the audio middleware's
// remote query API.
type MiddlewareConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
}

// HostConfig contains connection settings for the timeline host bridge.
type HostConfig struct {
	BridgeURL string `toml:"bridge_url"`
}

// VCSConfig selects and configures the version control client used before
// rendering over tracked files.
type VCSConfig struct {
	Client string `toml:"client"` // "p4" or "none"
	P4Bin  string `toml:"p4_bin"`
}

// ImportConfig contains settings for staging and timeline placement.
type ImportConfig struct {
	StagingSubdir string  `toml:"staging_subdir"`
	GapSeconds    float64 `toml:"gap_seconds"`
}

// DatabaseConfig contains database connection settings for the local
// descriptor cache.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the localhost status server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
