// internal/config/config.go
//
// Environment-driven configuration shared by the HTTP bridge and the
// terminal player. A `.env` file in the working directory is loaded first
// when present; real environment variables win over it.
//
// Variables:
//   PORT=5175                      HTTP listen port
//   LOG_LEVEL=info                 zerolog level
//   DB_PATH=                       SQLite file for the guess ledger (empty = in-memory)
//   ROUTES_FILE=                   GeoJSON override for the embedded route shapes
//   PUZZLE_TZ=America/Los_Angeles  reference zone for day rollover
//   PUZZLE_RNG=seedrandom          seedrandom | hmac
//   PUZZLE_SALT=                   secret for the hmac source
//   MAX_GUESSES=5                  attempt budget
//   CLIENT_ORIGIN=http://localhost:5173
//   ANON_COOKIE_SECURE=false       mark the device cookie Secure/SameSite=None

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	RoutesFile   string
	Zone         string
	RNG          string
	Salt         string
	MaxGuesses   int
	ClientOrigin string
	SecureCookie bool
}

// Load reads configuration from `.env` and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       os.Getenv("DB_PATH"),
		RoutesFile:   os.Getenv("ROUTES_FILE"),
		Zone:         getEnv("PUZZLE_TZ", "America/Los_Angeles"),
		RNG:          getEnv("PUZZLE_RNG", "seedrandom"),
		Salt:         os.Getenv("PUZZLE_SALT"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}

	n, err := strconv.Atoi(getEnv("MAX_GUESSES", "5"))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid MAX_GUESSES: %q", os.Getenv("MAX_GUESSES"))
	}
	cfg.MaxGuesses = n

	if v := os.Getenv("ANON_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ANON_COOKIE_SECURE: %q", v)
		}
		cfg.SecureCookie = b
	}

	if cfg.RNG == "hmac" && cfg.Salt == "" {
		return nil, fmt.Errorf("PUZZLE_SALT must be set when PUZZLE_RNG=hmac")
	}
	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
