package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Secrets and identifiers stay strings; numeric
// knobs are converted up front so the rest of the app never parses env.
type Config struct {
	Env        string // application environment ("dev", "test", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign session tokens
	BcryptCost int    // bcrypt cost for password hashing
	AdminEmail string // optional bootstrap admin email
	AdminPass  string // optional bootstrap admin password
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: mustInt("BCRYPT_COST"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
		AdminPass:  os.Getenv("ADMIN_PASS"),
	}
}

// IsProd reports whether the app runs in production mode. It controls the
// Secure attribute on the session cookie.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("var", key).Msg("missing required env var")
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatal().Str("var", key).Str("value", s).Msg("invalid int env var")
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
