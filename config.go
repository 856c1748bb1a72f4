package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultLocale     = "ru-RU"
	defaultCancelWord = "/cancel"

	co2EntryManual   = "manual"
	co2EntryTemplate = "template"

	sessionBackendFile   = "file"
	sessionBackendSQLite = "sqlite"
)

type Config struct {
	APIBaseURL string          `yaml:"api_base_url" env:"ECOADMIN_API_URL"`
	Locale     string          `yaml:"locale" env:"ECOADMIN_LOCALE"`
	LogLevel   string          `yaml:"log_level" env:"ECOADMIN_LOG_LEVEL"`
	Session    SessionConfig   `yaml:"session"`
	Dashboard  DashboardConfig `yaml:"dashboard"`

	// HostUser is the JSON identity handed over by the hosting app, e.g.
	// {"id": 123, "first_name": "Anna"}. Never read from the file.
	HostUser string `yaml:"-" env:"ECOADMIN_HOST_USER"`
}

// SessionConfig selects where the token and admin id are kept between runs
type SessionConfig struct {
	Backend string `yaml:"backend" env:"ECOADMIN_SESSION_BACKEND"`
	Path    string `yaml:"path" env:"ECOADMIN_SESSION_PATH"`
}

// DashboardConfig toggles the dashboard variants
type DashboardConfig struct {
	CO2Entry   string              `yaml:"co2_entry"`
	UserStats  *bool               `yaml:"user_stats"`
	CancelWord string              `yaml:"cancel_word"`
	Templates  []ChallengeTemplate `yaml:"templates"`
}

var customConfigPath string

func setConfigPath(path string) {
	customConfigPath = path
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ecoadmin"), nil
}

func getConfigPath() (string, error) {
	if customConfigPath != "" {
		return customConfigPath, nil
	}
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func createConfigTemplate() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	template := `# ecoadmin configuration
# administrator console for the EcoStep eco challenge bot

# base url of the admin REST API (everything under /api)
api_base_url: "http://localhost:8000/api"

# interface language: ru-RU or en-US
locale: "ru-RU"

# debug, info, warn, error
log_level: "info"

# where the auth token and admin id are kept between runs
session:
  backend: "file"   # file or sqlite
  path: ""          # defaults to session.yaml / session.db next to this file

dashboard:
  # manual: free text CO2 value, template: pick a predefined action
  co2_entry: "manual"
  # show the users statistics block
  user_stats: true
  # word that cancels a prompt
  cancel_word: "/cancel"
  # templates used by co2_entry: template (built-in list when empty)
  templates: []
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// loadConfig reads the config file. A missing file is not an error.
func loadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return &config, nil
}

func configExists() bool {
	configPath, err := getConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

// applyEnv overrides file values with ECOADMIN_* variables that are set.
func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = defaultLocale
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}

	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = sessionBackendFile
	}

	cfg.Dashboard.CO2Entry = strings.ToLower(strings.TrimSpace(cfg.Dashboard.CO2Entry))
	if cfg.Dashboard.CO2Entry == "" {
		cfg.Dashboard.CO2Entry = co2EntryManual
	}
	if cfg.Dashboard.UserStats == nil {
		enabled := true
		cfg.Dashboard.UserStats = &enabled
	}
	if strings.TrimSpace(cfg.Dashboard.CancelWord) == "" {
		cfg.Dashboard.CancelWord = defaultCancelWord
	}
	if len(cfg.Dashboard.Templates) == 0 {
		cfg.Dashboard.Templates = defaultChallengeTemplates()
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Session.Backend {
	case sessionBackendFile, sessionBackendSQLite:
	default:
		return fmt.Errorf("unknown session backend %q. valid options are: file, sqlite", cfg.Session.Backend)
	}
	switch cfg.Dashboard.CO2Entry {
	case co2EntryManual, co2EntryTemplate:
	default:
		return fmt.Errorf("unknown co2_entry %q. valid options are: manual, template", cfg.Dashboard.CO2Entry)
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must be an http(s) url, got %q", cfg.APIBaseURL)
	}
	for _, tpl := range cfg.Dashboard.Templates {
		if tpl.Points <= 0 || strings.TrimSpace(tpl.CO2) == "" || strings.TrimSpace(tpl.Action) == "" {
			return fmt.Errorf("challenge template %d is incomplete", tpl.ID)
		}
	}
	return nil
}

// sessionPath resolves the store location for the selected backend.
func sessionPath(cfg *Config) (string, error) {
	if p := strings.TrimSpace(cfg.Session.Path); p != "" {
		return p, nil
	}
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	if cfg.Session.Backend == sessionBackendSQLite {
		return filepath.Join(dir, "session.db"), nil
	}
	return filepath.Join(dir, "session.yaml"), nil
}

func (c *Config) userStatsEnabled() bool {
	return c.Dashboard.UserStats == nil || *c.Dashboard.UserStats
}
