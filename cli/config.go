package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lialzmChina/beancount/parser"
)

// Config is the optional tool configuration, read from beancount.yaml in
// the working directory (or the path in $BEANCOUNT_CONFIG). Flags override
// it; absence of the file is not an error.
type Config struct {
	// Precision is the number of fractional digits carried by inexact
	// divisions in amount expressions.
	Precision int32 `yaml:"precision"`

	// Rounding selects the division rounding mode: "half-even" (default)
	// or "half-up".
	Rounding string `yaml:"rounding"`

	// CurrencyColumn aligns posting currencies at a fixed column when
	// formatting. Zero derives the column from content.
	CurrencyColumn int `yaml:"currency_column"`

	// VerboseErrors makes parse errors name the tokens that would have
	// been accepted.
	VerboseErrors bool `yaml:"verbose_errors"`
}

// configFile is the default tool config filename.
const configFile = "beancount.yaml"

// LoadConfig reads the tool configuration. A missing file yields the zero
// config; a malformed file is an error.
func LoadConfig() (*Config, error) {
	path := os.Getenv("BEANCOUNT_CONFIG")
	if path == "" {
		path = configFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Rounding != "" && cfg.Rounding != "half-even" && cfg.Rounding != "half-up" {
		return nil, fmt.Errorf("invalid rounding mode %q in %s", cfg.Rounding, path)
	}

	return &cfg, nil
}

// ParseOptions translates the config into parse options.
func (c *Config) ParseOptions() []parser.ParseOption {
	var opts []parser.ParseOption

	if c.Precision > 0 {
		opts = append(opts, parser.WithPrecision(c.Precision))
	}
	if c.Rounding == "half-up" {
		opts = append(opts, parser.WithRounding(parser.RoundHalfUp))
	}
	if c.VerboseErrors {
		opts = append(opts, parser.WithVerboseErrors())
	}

	return opts
}
