package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	DataDir          string           `toml:"data_dir"`
	Database         string           `toml:"database"`
	ImageDir         string           `toml:"image_dir"`
	APIURL           string           `toml:"api_url"`
	ImageURL         string           `toml:"image_url"`
	FullSets         []string         `toml:"full_sets"`
	PartialSets      map[string]Range `toml:"partial_sets"`
	ListenAddr       string           `toml:"listen_addr"`
	LogLevel         string           `toml:"log_level"`
	FetchConcurrency int              `toml:"fetch_concurrency"`
}

// Range selects card numbers of a partially fetched set. Ranges are
// inclusive.
type Range struct {
	Spans [][2]int `toml:"spans"`
}

// Numbers expands the spans into card numbers.
func (r Range) Numbers() []int {
	var out []int
	for _, s := range r.Spans {
		for n := s[0]; n <= s[1]; n++ {
			out = append(out, n)
		}
	}
	return out
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetCacheDir returns the holocron cache directory under XDG_CACHE_HOME or
// its default
func GetCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "holocron")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "holocron")
	}
	return filepath.Join(homeDir, ".cache", "holocron")
}

// GetConfigFilePath returns the path to the config file. HOLOCRON_CONFIG
// overrides the default location.
func GetConfigFilePath() string {
	if p := os.Getenv("HOLOCRON_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(GetXDGConfigHome(), "holocron", "config.toml")
}

// Default returns the configuration written on first run.
func Default() *Config {
	dataDir := filepath.Join(GetXDGDataHome(), "holocron")
	return &Config{
		DataDir:  dataDir,
		Database: filepath.Join(dataDir, "db.sqlite3"),
		ImageDir: filepath.Join(dataDir, "static", "images"),
		APIURL:   "https://api.swu-db.com",
		ImageURL: "https://swudb.com/images/cards",
		FullSets: []string{"SOR", "SHD", "TWI", "LOF"},
		PartialSets: map[string]Range{
			// foils and prestige serialized are skipped
			"JTL": {Spans: [][2]int{{1, 524}, {997, 1050}}},
		},
		ListenAddr:       "127.0.0.1:8000",
		LogLevel:         "info",
		FetchConcurrency: 4,
	}
}

// AllCardsPath is the fetched card data file.
func (c *Config) AllCardsPath() string {
	return filepath.Join(c.DataDir, "all_cards.json")
}

// CorrectionsPath is the optional manual corrections file.
func (c *Config) CorrectionsPath() string {
	return filepath.Join(c.DataDir, "corrections.json")
}

// SetsPath is the set catalog.
func (c *Config) SetsPath() string {
	return filepath.Join(c.DataDir, "sets.toml")
}

// LoadConfig loads the config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath())
}

// LoadConfigFrom loads the config file at configPath, creating it with
// defaults when missing. Keys absent from the file keep their defaults.
func LoadConfigFrom(configPath string) (*Config, error) {
	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	if config.FetchConcurrency < 1 {
		config.FetchConcurrency = 1
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()
	if err := Save(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes config to configPath as TOML.
func Save(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}
