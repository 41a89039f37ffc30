// Package config loads jwtcrack settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/jwtcrack/pkg/jwtcrack"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all jwtcrack configuration.
type Config struct {
	// Search space
	Alphabet  string `yaml:"alphabet" validate:"required,distinct_symbols"`
	MaxLength int    `yaml:"max_length" validate:"gte=0"`

	// Execution
	Workers          int           `yaml:"workers" validate:"gte=0"`        // 0 = NumCPU
	QueueCapacity    int           `yaml:"queue_capacity" validate:"gte=0"` // 0 = 4 per worker
	ProgressInterval time.Duration `yaml:"progress_interval" validate:"gte=0"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Alphabet:         jwtcrack.DefaultAlphabet,
		MaxLength:        jwtcrack.DefaultMaxLength,
		Workers:          0,
		QueueCapacity:    0,
		ProgressInterval: 5 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file and applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies JWTCRACK_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("JWTCRACK_ALPHABET"); v != "" {
		c.Alphabet = v
	}
	if v := os.Getenv("JWTCRACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"JWTCRACK_MAX_LENGTH", &c.MaxLength},
		{"JWTCRACK_WORKERS", &c.Workers},
		{"JWTCRACK_QUEUE_CAPACITY", &c.QueueCapacity},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, o.env, v)
		}
		*o.dst = n
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SearchConfig converts the execution settings for the coordinator.
func (c *Config) SearchConfig() jwtcrack.SearchConfig {
	return jwtcrack.SearchConfig{
		Workers:          c.Workers,
		QueueCapacity:    c.QueueCapacity,
		ProgressInterval: c.ProgressInterval,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("yaml")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	_ = v.RegisterValidation("distinct_symbols", func(fl validator.FieldLevel) bool {
		return !jwtcrack.HasDuplicates(fl.Field().String())
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "distinct_symbols":
		return fmt.Sprintf("%s must not repeat symbols", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
