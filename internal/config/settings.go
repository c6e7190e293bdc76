package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds process-level options read from the environment
type Settings struct {
	LogLevel    string   `env:"PENSION_LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"PENSION_LOG_FORMAT" envDefault:"text"`
	LenientSex  bool     `env:"PENSION_LENIENT_SEX" envDefault:"false"`
	Format      string   `env:"PENSION_FORMAT" envDefault:"console"`
	Addr        string   `env:"PENSION_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"PENSION_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
}

// LoadSettings reads settings from the environment, after loading the given
// dotenv files. Missing dotenv files are ignored; variables already set in
// the environment win.
func LoadSettings(dotenvFiles ...string) (*Settings, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerated settings
func (s *Settings) Validate() error {
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be 'text' or 'json', got %q", s.LogFormat)
	}
	if s.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}
