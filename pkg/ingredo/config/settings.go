package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

// Settings is the root application configuration.
type Settings struct {
	Data    DataSettings    `yaml:"data"`
	Analyze AnalyzeSettings `yaml:"analyze"`
	Server  ServerSettings  `yaml:"server"`
	Log     LogSettings     `yaml:"log"`
}

// DataSettings locates the data files.
type DataSettings struct {
	Dataset    string `yaml:"dataset"    env:"INGREDO_DATASET"    env-default:"data/foods.json" validate:"required"`
	Dictionary string `yaml:"dictionary" env:"INGREDO_DICTIONARY"`
	Noise      string `yaml:"noise"      env:"INGREDO_NOISE"`
}

// AnalyzeSettings holds analysis defaults.
type AnalyzeSettings struct {
	Preference string `yaml:"preference" env:"INGREDO_PREFERENCE" env-default:"vegan" validate:"oneof=vegan vegetarian pescatarian eggetarian"`
	Workers    int    `yaml:"workers"    env:"INGREDO_WORKERS"    env-default:"4"     validate:"min=1,max=256"`
}

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	Addr            string        `yaml:"addr"             env:"INGREDO_ADDR"             env-default:":8080" validate:"required"`
	History         string        `yaml:"history"          env:"INGREDO_HISTORY"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"INGREDO_READ_TIMEOUT"     env-default:"10s"   validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"INGREDO_SHUTDOWN_TIMEOUT" env-default:"10s"   validate:"gt=0"`
}

// LogSettings controls the process logger.
type LogSettings struct {
	Level  string `yaml:"level"  env:"INGREDO_LOG_LEVEL"  env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"INGREDO_LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
}

// LoadSettings reads settings from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags). An empty path reads
// ENV and defaults only; a path that does not exist is an error.
func LoadSettings(path string) (*Settings, error) {
	var s Settings

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: settings file %s: %w", internalerr.ErrInvalidConfig, path, err)
		}
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", internalerr.ErrInvalidConfig, path, err)
		}
	} else if err := cleanenv.ReadEnv(&s); err != nil {
		return nil, fmt.Errorf("%w: read env: %w", internalerr.ErrInvalidConfig, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q (got %v)", internalerr.ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// Preference returns the configured default preference.
func (s *Settings) Preference() diet.Preference {
	p, err := diet.ParsePreference(s.Analyze.Preference)
	if err != nil {
		return diet.Vegan
	}
	return p
}

// Loader returns a data loader for the configured files.
func (s *Settings) Loader(log *slog.Logger) *Loader {
	return &Loader{
		DatasetPath:    s.Data.Dataset,
		DictionaryPath: s.Data.Dictionary,
		NoisePath:      s.Data.Noise,
		Logger:         log,
	}
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogSettings) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger, text or JSON on stderr.
func (l LogSettings) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
