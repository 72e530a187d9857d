// Package config loads application configuration from environment
// variables. Required variables are enforced by must() and missing values
// cause the process to exit at startup rather than failing later inside a
// request.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used:
// strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	JWTSecret      string   // secret used to sign JWTs
	AccessTTLMin   int      // access token time-to-live in minutes
	RefreshTTLDays int      // refresh token time-to-live in days
	BcryptCost     int      // bcrypt cost for password hashing
	AdminEmails    []string // fixed allow-list of administrator emails
	AMQPURL        string   // RabbitMQ URL for notification events (optional)
}

// Load reads configuration values from environment variables and returns a
// Config. ADMIN_EMAILS is a comma-separated list; it may be empty, in
// which case no account is ever granted the admin role.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AdminEmails:    splitList(os.Getenv("ADMIN_EMAILS")),
		AMQPURL:        os.Getenv("RABBITMQ_URL"),
	}
}

// AdminPolicy answers whether an authenticated identity is an
// administrator. It is injected wherever the admin decision is needed so
// the fixed allow-list below can be swapped without touching callers.
type AdminPolicy func(email string) bool

// AdminList builds the default AdminPolicy from the configured allow-list.
// Comparison is case-insensitive on the email address.
func (c Config) AdminList() AdminPolicy {
	allowed := make(map[string]bool, len(c.AdminEmails))
	for _, e := range c.AdminEmails {
		allowed[strings.ToLower(e)] = true
	}
	return func(email string) bool {
		return allowed[strings.ToLower(strings.TrimSpace(email))]
	}
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
