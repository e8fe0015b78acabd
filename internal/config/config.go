package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/umsatz-dev/umsatz/internal/banking"
)

// ErrNoBIC means the required bank identifier is not configured. It is
// raised before any parsing begins.
var ErrNoBIC = errors.New("no BIC configured: set bank.bic in the config file")

// Config represents the top-level umsatz.yaml configuration.
type Config struct {
	Bank BankConfig `yaml:"bank"`
}

// BankConfig identifies the bank whose exports are converted.
type BankConfig struct {
	BIC string `yaml:"bic"` // 8 or 11 characters, e.g. GENODED1SPE
}

// Load reads an umsatz.yaml file from disk.
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

// Default returns a Config for the given bank.
func Default(bic string) *Config {
	return &Config{Bank: BankConfig{BIC: bic}}
}

// BIC validates the configured bank identifier and returns it.
func (c *Config) BIC() (banking.BIC, error) {
	if c.Bank.BIC == "" {
		return "", ErrNoBIC
	}
	bic, err := banking.ParseBIC(c.Bank.BIC)
	if err != nil {
		return "", fmt.Errorf("invalid bank.bic: %w", err)
	}
	return bic, nil
}
