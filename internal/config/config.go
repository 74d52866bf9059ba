// Package config loads and validates the closekit.yaml pipeline
// configuration.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level closekit.yaml configuration.
type Config struct {
	Period    string            `yaml:"period"`
	Logging   LoggingConfig     `yaml:"logging"`
	Folders   map[string]string `yaml:"folders"`
	Naming    map[string]string `yaml:"naming"`
	Schema    SchemaConfig      `yaml:"schema"`
	Match     MatchConfig       `yaml:"match"`
	Merge     MergeConfig       `yaml:"merge"`
	FX        FXConfig          `yaml:"fx"`
	OnFailure string            `yaml:"on_failure"`
	Steps     []StepSpec        `yaml:"pipeline"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchemaConfig is the canonical trial-balance schema.
type SchemaConfig struct {
	Required []string `yaml:"required"`
	Optional []string `yaml:"optional,omitempty"`
	Numeric  []string `yaml:"numeric"`
}

// MatchConfig controls fuzzy header matching.
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// MergeConfig controls duplicate-key handling and balance validation.
type MergeConfig struct {
	Policy    string  `yaml:"policy"`    // "aggregate" or "strict"
	Tolerance float64 `yaml:"tolerance"` // currency units
}

// FXConfig controls translation.
type FXConfig struct {
	ReportingCurrency string `yaml:"reporting_currency"`
	Rounding          string `yaml:"rounding"` // "bank" or "half-up"
	Source            string `yaml:"source"`   // "file" or "http"
	RatesURL          string `yaml:"rates_url,omitempty"`
}

// StepSpec is one entry of the ordered pipeline definition.
type StepSpec struct {
	Step   string         `yaml:"step"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Load reads a closekit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(period string) *Config {
	return &Config{
		Period: period,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Folders: map[string]string{
			"tb":      "tb",
			"fx":      "fx",
			"support": "support",
			"logs":    "logs",
		},
		Naming: map[string]string{
			"master_tb":      "Master_TB_{period}.xlsx",
			"translated_tb":  "Master_TB_{period}_Translated.xlsx",
			"fx_rates":       "Rates_{period}.xlsx",
			"fx_adjustments": "FXAdj_{period}.xlsx",
			"support_doc":    "Support_{period}.md",
		},
		Schema: SchemaConfig{
			Required: []string{"EntityCode", "AccountCode", "Debit", "Credit", "CurrencyCode"},
			Optional: []string{"AccountName", "Period"},
			Numeric:  []string{"Debit", "Credit"},
		},
		Match: MatchConfig{Threshold: 0.9},
		Merge: MergeConfig{
			Policy:    "aggregate",
			Tolerance: 0.01,
		},
		FX: FXConfig{
			ReportingCurrency: "USD",
			Rounding:          "bank",
			Source:            "file",
		},
		OnFailure: "abort",
		Steps: []StepSpec{
			{Step: "TBCollector"},
			{Step: "FXTranslator"},
			{Step: "DocAssembler", Params: map[string]any{
				"include": []any{"master_tb", "fx_adjustments"},
			}},
		},
	}
}

var periodFormat = regexp.MustCompile(`^\d{4}(0[1-9]|1[0-2])$`)

// Validate checks cross-field constraints before a pipeline runs.
func (c *Config) Validate() error {
	if !periodFormat.MatchString(c.Period) {
		return fmt.Errorf("period %q is not YYYYMM", c.Period)
	}
	switch c.Merge.Policy {
	case "aggregate", "strict":
	default:
		return fmt.Errorf("merge policy %q is not aggregate or strict", c.Merge.Policy)
	}
	switch c.FX.Rounding {
	case "bank", "half-up":
	default:
		return fmt.Errorf("fx rounding %q is not bank or half-up", c.FX.Rounding)
	}
	switch c.FX.Source {
	case "file":
	case "http":
		if c.FX.RatesURL == "" {
			return fmt.Errorf("fx source http requires rates_url")
		}
	default:
		return fmt.Errorf("fx source %q is not file or http", c.FX.Source)
	}
	switch c.OnFailure {
	case "abort", "continue":
	default:
		return fmt.Errorf("on_failure %q is not abort or continue", c.OnFailure)
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match threshold %v is outside [0,1]", c.Match.Threshold)
	}
	if c.Merge.Tolerance < 0 {
		return fmt.Errorf("merge tolerance %v is negative", c.Merge.Tolerance)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("pipeline has no steps")
	}
	for i, s := range c.Steps {
		if s.Step == "" {
			return fmt.Errorf("pipeline step %d has no step name", i+1)
		}
	}
	return nil
}
