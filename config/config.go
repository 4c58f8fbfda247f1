package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server port
	Port string `env:"PORT" envDefault:"5250"`

	// LogLevel is parsed by logrus (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins lists allowed origins, "*" allows all
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// City selects an entry of SupportedCities
	City string `env:"CITY" envDefault:"malaga"`

	// DistrictsFile optionally replaces the built-in district table
	DistrictsFile string `env:"DISTRICTS_FILE"`

	Dataset struct {
		// Seed of the session dataset
		Seed int64 `env:"DATASET_SEED" envDefault:"42"`

		// Number of records generated per seed
		Size int `env:"DATASET_SIZE" envDefault:"4000"`

		// Residential records drawn for the marker layer
		MarkerSampleSize int `env:"MARKER_SAMPLE_SIZE" envDefault:"300"`
	}

	Database struct {
		// DSN of the session store, in-memory unless overridden
		DSN string `env:"DB_DSN" envDefault:"file::memory:?cache=shared"`

		// Maximum number of records per insert batch
		BatchSize int `env:"DB_BATCH_SIZE" envDefault:"500"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
