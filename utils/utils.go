package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// GetEnv returns the value of key, or the first fallback when it is unset or blank.
func GetEnv(key string, fallback ...string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// GenerateRunID returns a new identifier for a correlation run.
func GenerateRunID() string {
	return uuid.NewString()
}

// CreateFolder creates path and any missing parents.
func CreateFolder(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("createfolder: cannot create %s: %w", path, err)
	}
	return nil
}
