package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const datasetSuffix = "_syllabusparser"

// Load reads an optional .env file, then the YAML file named by CONFIG_PATH
// if any, then the environment. Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDerived() {
	if _, set := os.LookupEnv("LOG_PRETTY"); !set && devEnvironment() {
		c.Logging.Pretty = true
	}
	if c.Axiom.Dataset != "" && !strings.HasSuffix(c.Axiom.Dataset, datasetSuffix) {
		c.Axiom.Dataset += datasetSuffix
	}
	c.Backend.Provider = strings.ToLower(strings.TrimSpace(c.Backend.Provider))
	c.Extraction.PDFEngine = strings.ToLower(strings.TrimSpace(c.Extraction.PDFEngine))
}

func devEnvironment() bool {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	return env == "dev" || env == "development" || env == "local"
}
