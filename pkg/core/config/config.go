// Package config loads engine and cache settings from a YAML file
// with environment variables for secrets.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Config holds everything the metrics engine accepts from the
// operator. CAPM fields are pointers: nil keeps the engine default so
// each assumption is independently overridable.
type Config struct {
	CacheDir string `yaml:"cache_dir"`
	TTLDays  int    `yaml:"ttl_days" validate:"gte=0"`
	Years    int    `yaml:"years" validate:"gte=0"`

	RiskFreeRate      *float64 `yaml:"risk_free_rate" validate:"omitempty,gte=0,lte=1"`
	MarketRiskPremium *float64 `yaml:"market_risk_premium" validate:"omitempty,gte=0,lte=1"`
	Beta              *float64 `yaml:"beta" validate:"omitempty,gte=0"`

	Sensitivity bool `yaml:"sensitivity"`

	// From the environment, never the file.
	DatabaseURL string `yaml:"-"`
}

// Default returns the stock configuration: 5-year window, 90-day TTL,
// sensitivity scenarios on.
func Default() Config {
	return Config{
		CacheDir:    "",
		TTLDays:     90,
		Years:       5,
		Sensitivity: true,
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path loads defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
