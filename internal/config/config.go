package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/minicodemonkey/notegen/internal/synth"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "notegen.yaml"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds the settings for a generation run.
type Config struct {
	Output             string     `yaml:"output"`
	Notes              string     `yaml:"notes"`
	SampleRate         int        `yaml:"sampleRate"`
	DurationSeconds    float64    `yaml:"durationSeconds"`
	ReferenceAmplitude float64    `yaml:"referenceAmplitude"`
	Amplitude          IntRange   `yaml:"amplitude"`
	FreqJitter         FloatRange `yaml:"freqJitter"`
	Variants           int        `yaml:"variants"`
	Seed               int64      `yaml:"seed"`
	Workers            int        `yaml:"workers"`
	FailFast           bool       `yaml:"failFast"`
	MetricsFile        string     `yaml:"metricsFile,omitempty"`
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// FloatRange is a half-open real range [Min, Max).
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns the settings that reproduce the reference dataset.
func Default() *Config {
	return &Config{
		Output:             "Simulated_Dataset",
		Notes:              "guitar",
		SampleRate:         synth.SampleRate,
		DurationSeconds:    synth.DurationSeconds,
		ReferenceAmplitude: synth.ReferenceAmplitude,
		Amplitude:          IntRange{Min: 5, Max: 20},
		FreqJitter:         FloatRange{Min: -10, Max: 10},
		Variants:           10,
		Seed:               20,
		Workers:            1,
	}
}

// Exists checks if the config file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config from path on top of Default().
// Returns Default() when the file doesn't exist (no error).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// A relative note table path is relative to the config file.
	if cfg.Notes != "" && !filepath.IsAbs(cfg.Notes) && filepath.Ext(cfg.Notes) != "" {
		cfg.Notes = filepath.Join(filepath.Dir(path), cfg.Notes)
	}

	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyEnv overrides fields from NOTEGEN_* environment variables.
// Values that fail to parse are ignored.
func (c *Config) ApplyEnv() {
	c.Output = envStr("NOTEGEN_OUTPUT", c.Output)
	c.Notes = envStr("NOTEGEN_NOTES", c.Notes)
	c.MetricsFile = envStr("NOTEGEN_METRICS_FILE", c.MetricsFile)
	c.SampleRate = envInt("NOTEGEN_SAMPLE_RATE", c.SampleRate)
	c.DurationSeconds = envFloat("NOTEGEN_DURATION", c.DurationSeconds)
	c.Variants = envInt("NOTEGEN_VARIANTS", c.Variants)
	c.Workers = envInt("NOTEGEN_WORKERS", c.Workers)
	c.Seed = envInt64("NOTEGEN_SEED", c.Seed)
}

// Validate checks that the config can drive a run.
func (c *Config) Validate() error {
	switch {
	case c.Output == "":
		return fmt.Errorf("%w: output must be set", ErrInvalid)
	case c.Notes == "":
		return fmt.Errorf("%w: notes must be set", ErrInvalid)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sampleRate must be positive, got %d", ErrInvalid, c.SampleRate)
	case c.DurationSeconds <= 0:
		return fmt.Errorf("%w: durationSeconds must be positive, got %v", ErrInvalid, c.DurationSeconds)
	case c.Variants < 0:
		return fmt.Errorf("%w: variants must not be negative, got %d", ErrInvalid, c.Variants)
	case c.Amplitude.Min > c.Amplitude.Max:
		return fmt.Errorf("%w: amplitude.min %d exceeds amplitude.max %d", ErrInvalid, c.Amplitude.Min, c.Amplitude.Max)
	case c.FreqJitter.Min > c.FreqJitter.Max:
		return fmt.Errorf("%w: freqJitter.min %v exceeds freqJitter.max %v", ErrInvalid, c.FreqJitter.Min, c.FreqJitter.Max)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
