package insider

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the caller-supplied configuration surface of the pipeline:
// how far back to scan, how many filings to cap, how fast to talk to the
// archive, and how to identify ourselves to it.
type Config struct {
	Email string

	Form4DaysBack   int
	Form4MaxFilings int

	Sched13DaysBack   int
	Sched13MaxFilings int

	RequestDelay time.Duration
	OutputDir    string
}

// LoadConfig reads configuration from environment variables, with a .env
// file honored when present. Missing or malformed values fall back to
// defaults matching the pipeline's historical settings.
func LoadConfig() (*Config, error) {
	// Best effort: running without a .env file is normal.
	_ = godotenv.Load()

	cfg := &Config{
		Email:             os.Getenv(SecEmailEnvVar),
		Form4DaysBack:     getEnvInt("FORM4_DAYS_BACK", 3),
		Form4MaxFilings:   getEnvInt("FORM4_MAX_FILINGS", 150),
		Sched13DaysBack:   getEnvInt("SCHED13_DAYS_BACK", 7),
		Sched13MaxFilings: getEnvInt("SCHED13_MAX_FILINGS", 200),
		RequestDelay:      getEnvDuration("REQUEST_DELAY", DefaultDelay),
		OutputDir:         getEnv("OUTPUT_DIR", "data"),
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
