package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvFileVar names the variable that points Load at a specific env file.
const EnvFileVar = "MOCHA_ENV_FILE"

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// FindEnvFile resolves name to an existing file. Absolute paths are used
// as they are; relative ones are looked up in the working directory and
// then in each of its parents, so tests in nested packages find the
// repository's .env. An empty name means ".env".
func FindEnvFile(name string) (string, error) {
	if name == "" {
		name = ".env"
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
		}
		dir = parent
	}
}
