// Package config reads the budget settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"

	"github.com/etnz/budget"
	"github.com/joho/godotenv"
)

type Config struct {
	// Store is the snapshot location: a file path, or "sqlite:<path>".
	Store string
	// Passphrase encrypts the snapshot file, if set.
	Passphrase string
	// Currency of new books.
	Currency string
	// ListenAddr is the address of the HTTP API.
	ListenAddr string
}

// Load reads the configuration from the environment. The files in envFiles
// (".env" if none) are loaded first when they exist; variables already set
// in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return &Config{
		Store:      getEnv("BUDGET_STORE", "budget.jsonl"),
		Passphrase: os.Getenv("BUDGET_PASSPHRASE"),
		Currency:   strings.ToUpper(getEnv("BUDGET_CURRENCY", budget.DefaultCurrency)),
		ListenAddr: getEnv("BUDGET_LISTEN_ADDR", ":8080"),
	}, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Store) == "" || c.Store == "sqlite:" {
		errs = append(errs, "store location cannot be empty")
	}
	if strings.HasPrefix(c.Store, "sqlite:") && c.Passphrase != "" {
		errs = append(errs, "a passphrase cannot be used with a sqlite store")
	}
	if err := budget.ValidCurrency(c.Currency); err != nil {
		errs = append(errs, err.Error())
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		errs = append(errs, fmt.Sprintf("invalid listen address '%s': %v", c.ListenAddr, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
