// Package settings reads and writes the wizard's YAML settings file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"storefront-wizard/internal/runstore"
)

type Settings struct {
	Language  string    `yaml:"language" json:"language"`
	RunsDir   string    `yaml:"runs_dir" json:"runs_dir"`
	Timing    Timing    `yaml:"timing" json:"timing"`
	Preview   Preview   `yaml:"preview" json:"preview"`
	Generator Generator `yaml:"generator" json:"generator"`
	Log       Log       `yaml:"log" json:"log"`
}

type Timing struct {
	ValidateDebounce time.Duration `yaml:"validate_debounce" json:"validate_debounce"`
	AutoTrimDelay    time.Duration `yaml:"auto_trim_delay" json:"auto_trim_delay"`
	SampleInterval   time.Duration `yaml:"sample_interval" json:"sample_interval"`
	SettleDelay      time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

type Preview struct {
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	MaxMarkdownChars  int           `yaml:"max_markdown_chars" json:"max_markdown_chars"`
}

type Generator struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	APIKeyEnv   string  `yaml:"api_key_env" json:"api_key_env"`
}

type Log struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// APIKey reads the generator key from the configured environment variable.
func (g Generator) APIKey() string {
	return strings.TrimSpace(os.Getenv(g.APIKeyEnv))
}

func NormalizeConfigPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultConfigPath
	}
	return p
}

// Load reads the settings file; a missing file yields the defaults.
func Load(configPath string) (Settings, error) {
	path := NormalizeConfigPath(configPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return Normalize(s), nil
}

func Save(configPath string, s Settings) error {
	path := NormalizeConfigPath(configPath)
	data, err := yaml.Marshal(Normalize(s))
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return runstore.WriteBytes(path, data)
}

// Normalize replaces unusable values with defaults.
func Normalize(raw Settings) Settings {
	def := Defaults()
	norm := raw

	norm.Language = normalizeLanguage(norm.Language)
	norm.RunsDir = strings.TrimSpace(norm.RunsDir)
	if norm.RunsDir == "" {
		norm.RunsDir = def.RunsDir
	}

	norm.Timing.ValidateDebounce = positiveDuration(norm.Timing.ValidateDebounce, def.Timing.ValidateDebounce)
	norm.Timing.AutoTrimDelay = positiveDuration(norm.Timing.AutoTrimDelay, def.Timing.AutoTrimDelay)
	if norm.Timing.AutoTrimDelay <= norm.Timing.ValidateDebounce {
		norm.Timing.AutoTrimDelay = norm.Timing.ValidateDebounce * 5
	}
	norm.Timing.SampleInterval = positiveDuration(norm.Timing.SampleInterval, def.Timing.SampleInterval)
	norm.Timing.SettleDelay = positiveDuration(norm.Timing.SettleDelay, def.Timing.SettleDelay)

	norm.Preview.Timeout = positiveDuration(norm.Preview.Timeout, def.Preview.Timeout)
	if norm.Preview.RequestsPerSecond <= 0 {
		norm.Preview.RequestsPerSecond = def.Preview.RequestsPerSecond
	}
	if norm.Preview.MaxRetries < 0 {
		norm.Preview.MaxRetries = def.Preview.MaxRetries
	}
	norm.Preview.UserAgent = strings.TrimSpace(norm.Preview.UserAgent)
	if norm.Preview.UserAgent == "" {
		norm.Preview.UserAgent = def.Preview.UserAgent
	}
	if norm.Preview.MaxMarkdownChars <= 0 {
		norm.Preview.MaxMarkdownChars = def.Preview.MaxMarkdownChars
	}

	norm.Generator = normalizeGenerator(norm.Generator)

	norm.Log.Level = strings.ToLower(strings.TrimSpace(norm.Log.Level))
	if norm.Log.Level == "" {
		norm.Log.Level = def.Log.Level
	}
	norm.Log.File = strings.TrimSpace(norm.Log.File)
	return norm
}

func normalizeGenerator(raw Generator) Generator {
	g := raw
	g.Provider = strings.ToLower(strings.TrimSpace(g.Provider))
	if g.Provider == "" {
		g.Provider = DefaultProvider
	}
	g.Model = strings.TrimSpace(g.Model)
	if g.Model == "" {
		switch g.Provider {
		case ProviderGemini:
			g.Model = DefaultGeminiModel
		default:
			g.Model = DefaultAnthropicModel
		}
	}
	if g.MaxTokens <= 0 {
		g.MaxTokens = DefaultMaxTokens
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		g.Temperature = DefaultTemperature
	}
	g.APIKeyEnv = strings.TrimSpace(g.APIKeyEnv)
	if g.APIKeyEnv == "" {
		switch g.Provider {
		case ProviderGemini:
			g.APIKeyEnv = DefaultGeminiKeyEnv
		default:
			g.APIKeyEnv = DefaultAnthropicKeyEnv
		}
	}
	return g
}

func normalizeLanguage(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil || tag == language.Und {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

func positiveDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
