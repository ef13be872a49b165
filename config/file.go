package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/feedscrape/extract"
	"gopkg.in/yaml.v3"
)

// BrowserFileConfig is the browser section of the config file.
type BrowserFileConfig struct {
	RemoteURL       string `yaml:"remote_url"`
	Headless        *bool  `yaml:"headless"`
	Bin             string `yaml:"bin"`
	NavigateTimeout string `yaml:"navigate_timeout"`
}

// ScrollFileConfig is the scroll section of the config file.
type ScrollFileConfig struct {
	Steps  int    `yaml:"steps"`
	Offset int    `yaml:"offset"`
	Delay  string `yaml:"delay"`
}

// ExpandFileConfig is the expand section of the config file.
type ExpandFileConfig struct {
	Enabled      *bool    `yaml:"enabled"`
	Labels       []string `yaml:"labels"`
	ClickTimeout string   `yaml:"click_timeout"`
	Delay        string   `yaml:"delay"`
	MaxRounds    int      `yaml:"max_rounds"`
}

// ReportsFileConfig is the reports section of the config file.
type ReportsFileConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// FileConfig represents the structure of ~/.feedscrape/config.yaml.
type FileConfig struct {
	Browser BrowserFileConfig `yaml:"browser"`
	Scroll  ScrollFileConfig  `yaml:"scroll"`
	Expand  ExpandFileConfig  `yaml:"expand"`
	Extract extract.Config    `yaml:"extract"`
	Reports ReportsFileConfig `yaml:"reports"`
	Prefs   struct {
		DSN string `yaml:"dsn"`
	} `yaml:"prefs"`
}

// Dir returns ~/.feedscrape.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".feedscrape"), nil
}

// LoadConfigFile loads configuration from ~/.feedscrape/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
