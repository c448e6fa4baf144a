// =============================================================================
// Transibase - Configuration Module
// =============================================================================
//
// This module loads the converter settings. Settings are resolved in three
// layers, each overriding the previous one:
//
//   1. Built-in defaults (applyDefaults)
//   2. The YAML configuration file (transibase.yaml)
//   3. TRANSIBASE_* environment variables
//
// Command-line flags are applied on top by the cmd package.
//
// EXAMPLE (transibase.yaml):
//   include_header: true
//   delimiter: ";"
//   line_ending: crlf
//   log_level: info
//   option_keys:
//     donation_amount: montantDon
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when --config is not given.
const DefaultConfigFile = "transibase.yaml"

// Line ending names accepted by LineEnding.
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter settings.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// IncludeHeader writes a header row before the data rows.
	// Default: false
	IncludeHeader bool `yaml:"include_header" env:"TRANSIBASE_INCLUDE_HEADER"`

	// Delimiter separates CSV fields. Must be a single character.
	// Default: ","
	Delimiter string `yaml:"delimiter" env:"TRANSIBASE_DELIMITER"`

	// LineEnding is "lf" or "crlf".
	// Default: "lf"
	LineEnding string `yaml:"line_ending" env:"TRANSIBASE_LINE_ENDING"`

	// =========================================================================
	// BEHAVIOUR SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "warn"
	LogLevel string `yaml:"log_level" env:"TRANSIBASE_LOG_LEVEL"`

	// AssumeYes overwrites an existing output file without asking.
	// Default: false
	AssumeYes bool `yaml:"assume_yes" env:"TRANSIBASE_ASSUME_YES"`

	// =========================================================================
	// EXPORT FIELD MAPPING
	// =========================================================================

	// OptionKeys names the line item options that hold the donor fields.
	OptionKeys OptionKeys `yaml:"option_keys"`
}

// OptionKeys maps donor fields to keys of the first line item's options.
type OptionKeys struct {
	// Default: "prenom"
	FirstName string `yaml:"first_name" env:"TRANSIBASE_KEY_FIRST_NAME"`

	// Default: "nom"
	LastName string `yaml:"last_name" env:"TRANSIBASE_KEY_LAST_NAME"`

	// Default: "dateNaissance"
	BirthDate string `yaml:"birth_date" env:"TRANSIBASE_KEY_BIRTH_DATE"`

	// Default: "donationAmount"
	DonationAmount string `yaml:"donation_amount" env:"TRANSIBASE_KEY_DONATION_AMOUNT"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a Config holding only the built-in defaults.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// Load builds the configuration from configPath and the environment.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file.
//   - required:   When false, a missing file is not an error and the
//                 defaults are used instead.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read or parsed, the environment holds
//     an unparsable value, or the result fails validation.
func Load(configPath string, required bool) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Delimiter == "" {
		config.Delimiter = ","
	}
	if config.LineEnding == "" {
		config.LineEnding = LineEndingLF
	}
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	if config.OptionKeys.FirstName == "" {
		config.OptionKeys.FirstName = "prenom"
	}
	if config.OptionKeys.LastName == "" {
		config.OptionKeys.LastName = "nom"
	}
	if config.OptionKeys.BirthDate == "" {
		config.OptionKeys.BirthDate = "dateNaissance"
	}
	if config.OptionKeys.DonationAmount == "" {
		config.OptionKeys.DonationAmount = "donationAmount"
	}

	config.LineEnding = strings.ToLower(config.LineEnding)
	config.LogLevel = strings.ToLower(config.LogLevel)
}

// Validate checks the settings that the CSV writer and logger depend on.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if r, _ := utf8.DecodeRuneInString(c.Delimiter); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("delimiter %q is not allowed", c.Delimiter)
	}

	switch c.LineEnding {
	case LineEndingLF, LineEndingCRLF:
	default:
		return fmt.Errorf("line_ending must be %q or %q, got %q", LineEndingLF, LineEndingCRLF, c.LineEnding)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	return nil
}

// Comma returns the delimiter as a rune.
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
