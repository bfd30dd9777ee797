// Package config loads fbctest run configuration from YAML, applies
// environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full run configuration.
type Config struct {
	Screening   ScreeningConfig   `yaml:"screening"`
	Tolerance   ToleranceConfig   `yaml:"tolerance"`
	Consistency ConsistencyConfig `yaml:"consistency"`
	Annotation  AnnotationConfig  `yaml:"annotation"`
	Logging     LoggingConfig     `yaml:"logging"`
	Archive     ArchiveConfig     `yaml:"archive"`
}

// ScreeningConfig sizes the worker pool and bounds each optimizer call.
type ScreeningConfig struct {
	Workers int           `yaml:"workers" validate:"min=1,max=4096"`
	Timeout time.Duration `yaml:"timeout" validate:"min=0"` // per solve; 0 = none
}

// ToleranceConfig is the comparator tolerance.
type ToleranceConfig struct {
	Absolute float64 `yaml:"absolute" validate:"gte=0"`
	Relative float64 `yaml:"relative" validate:"gte=0"`
}

// ConsistencyConfig tunes the consistency and energy-cycle checks.
type ConsistencyConfig struct {
	ExemptReactions  []string `yaml:"exempt_reactions,omitempty"`
	ExemptSBO        []string `yaml:"exempt_sbo,omitempty" validate:"dive,startswith=SBO:"`
	IgnoredReactions []string `yaml:"ignored_reactions,omitempty"`
	Threshold        float64  `yaml:"threshold" validate:"gt=0"`
}

// AnnotationConfig tunes annotation checks.
type AnnotationConfig struct {
	// DuplicateDatabase keys duplicate detection (inchi_key by default).
	DuplicateDatabase string `yaml:"duplicate_database" validate:"required"`
	// Patterns overrides or extends the identifier regex per database.
	Patterns map[string]string `yaml:"patterns,omitempty"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// ArchiveConfig locates the run index and blob store.
type ArchiveConfig struct {
	Database string     `yaml:"database" validate:"required"`
	Blob     BlobConfig `yaml:"blob"`
}

// BlobConfig selects the blob backend.
type BlobConfig struct {
	Driver       string `yaml:"driver" validate:"oneof=fs memory s3"`
	Root         string `yaml:"root" validate:"required_if=Driver fs"`
	Bucket       string `yaml:"bucket" validate:"required_if=Driver s3"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	UsePathStyle bool   `yaml:"use_path_style"`
	Prefix       string `yaml:"prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Screening: ScreeningConfig{Workers: 1},
		Tolerance: ToleranceConfig{Absolute: 1e-6, Relative: 1e-6},
		Consistency: ConsistencyConfig{
			Threshold: 1e-6,
		},
		Annotation: AnnotationConfig{DuplicateDatabase: "inchi_key"},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Archive: ArchiveConfig{
			Database: filepath.Join(".fbctest", "runs.db"),
			Blob:     BlobConfig{Driver: "fs", Root: filepath.Join(".fbctest", "blobs")},
		},
	}
}

// Load reads path over Default, applies environment overrides and validates.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes c as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides applies FBCTEST_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FBCTEST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Screening.Workers = n
		}
	}
	if v := os.Getenv("FBCTEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FBCTEST_ARCHIVE_DB"); v != "" {
		c.Archive.Database = v
	}
	if v := os.Getenv("FBCTEST_S3_BUCKET"); v != "" {
		c.Archive.Blob.Driver = "s3"
		c.Archive.Blob.Bucket = v
	}
	if v := os.Getenv("FBCTEST_S3_ENDPOINT"); v != "" {
		c.Archive.Blob.Endpoint = v
	}
}

var validate = validator.New()

// Validate checks struct tags and reports every violation at once.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, formatValidationError(err))
	}

	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}

	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	field = strings.ToLower(field)

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL", field)
	case "startswith":
		return fmt.Sprintf("%s must start with %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
