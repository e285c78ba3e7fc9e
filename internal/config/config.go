package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings for identifiers and secrets, ints
// for durations and costs.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	BcryptCost int    // bcrypt cost used to seal credential pre-hashes
	OtpTTLMin  int    // OTP time-to-live in minutes
	RabbitURL  string // AMQP broker URL for the OTP mail queue
	SMTPHost   string // SMTP relay host
	SMTPPort   string // SMTP relay port
	SMTPFrom   string // From address on OTP mail
	SMTPUser   string // SMTP auth user (optional)
	SMTPPass   string // SMTP auth password (optional)
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must(); missing
// values cause the program to exit with a fatal log message. Tunables
// fall back to sensible defaults.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		BcryptCost: intOr("BCRYPT_COST", 12),
		OtpTTLMin:  intOr("OTP_TTL_MIN", 5),
		RabbitURL:  os.Getenv("RABBITMQ_URL"), // publisher falls back to localhost
		SMTPHost:   getenv("SMTP_HOST", "localhost"),
		SMTPPort:   getenv("SMTP_PORT", "25"),
		SMTPFrom:   getenv("SMTP_FROM", "no-reply@jpk.local"),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable to an integer,
// falling back to def when unset or malformed.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("invalid int for %s: %q, using %d", key, s, def)
		return def
	}
	return n
}
