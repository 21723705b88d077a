// Package config loads run settings from an optional .env file and the
// process environment. Command-line flags override the loaded values.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strconv"

	"fastcorr/core"
	"fastcorr/utils"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

type DBConfig struct {
	User    string
	Pass    string
	Host    string
	Port    string
	Name    string
	SSLMode string
}

// Enabled reports whether a database host is configured.
func (d DBConfig) Enabled() bool { return d.Host != "" }

func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type Config struct {
	// GridSize is the N of the N x N intensity grids; 0 uses the image size.
	GridSize  int
	Threshold float64
	// Workers bounds goroutines per transform phase; 0 uses GOMAXPROCS.
	Workers  int
	Output   string
	PlotPath string
	Record   bool
	LogLevel string
	DB       DBConfig
}

// Load reads envFile when it exists (a missing file is not an error) and then
// the environment. Existing environment variables win over the file. Only
// malformed values are rejected; call Validate once overrides are applied.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("checking %s: %w", envFile, err)
	}

	var cfg Config
	var err error

	if cfg.GridSize, err = envInt("FASTCORR_GRID_SIZE", 0); err != nil {
		return Config{}, err
	}
	if cfg.Threshold, err = envFloat("FASTCORR_THRESHOLD", core.DefaultPeakThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = envInt("FASTCORR_WORKERS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Record, err = envBool("FASTCORR_RECORD", false); err != nil {
		return Config{}, err
	}
	cfg.Output = utils.GetEnv("FASTCORR_OUTPUT", "mask.png")
	cfg.PlotPath = utils.GetEnv("FASTCORR_PLOT")
	cfg.LogLevel = utils.GetEnv("LOG_LEVEL", "info")

	cfg.DB = DBConfig{
		User:    utils.GetEnv("DB_USER", "postgres"),
		Pass:    utils.GetEnv("DB_PASS", ""),
		Host:    utils.GetEnv("DB_HOST", ""),
		Port:    utils.GetEnv("DB_PORT", "5432"),
		Name:    utils.GetEnv("DB_NAME", "postgres"),
		SSLMode: utils.GetEnv("DB_SSLMODE", "require"),
	}

	return cfg, nil
}

// Logger builds a JSON logger at the configured LogLevel.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return utils.NewLogger(w, utils.ParseLevel(c.LogLevel))
}

// Validate rejects settings the pipeline cannot honour.
func (c Config) Validate() error {
	if c.GridSize != 0 && !core.IsPowerOfTwo(c.GridSize) {
		return fmt.Errorf("config: grid size %d is not a power of 2", c.GridSize)
	}
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("config: threshold %v outside (0, 1]", c.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	if c.Output == "" {
		return errors.New("config: output path is empty")
	}
	if c.Record && !c.DB.Enabled() {
		return errors.New("config: recording runs requires DB_HOST")
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	v := utils.GetEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := utils.GetEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := utils.GetEnv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
