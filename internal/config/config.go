package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"strings"
	"time"
)

// Config holds the runtime configuration of the console.  Each field
// corresponds to an environment variable.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	APIURL       string        // base URL of the movie API
	APITimeout   time.Duration // per-request timeout towards the API; 0 disables it
	AssetBaseURL string        // base URL that cover image paths are resolved against

	SessionStore  string        // memory | redis | mysql
	SessionCookie string        // name of the session id cookie
	SessionTTL    time.Duration // lifetime of a stored session
	CookieSecure  bool          // mark cookies Secure (HTTPS only)

	LogLevel  string // logrus level name
	LogFormat string // json | text

	DB DBConfig // only read when SessionStore is "mysql"
}

// DBConfig holds MySQL connection settings for the mysql session store.
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8080"),
		APIURL:       must("MOVIES_API_URL"),
		APITimeout:   envDur("MOVIES_API_TIMEOUT", 0),
		AssetBaseURL: envStr("ASSET_BASE_URL", "http://localhost:3000/"),

		SessionStore:  strings.ToLower(envStr("SESSION_STORE", "memory")),
		SessionCookie: envStr("SESSION_COOKIE", "movie_session"),
		SessionTTL:    envDur("SESSION_TTL", 30*24*time.Hour),
		CookieSecure:  envBool("COOKIE_SECURE", false),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "text"),
	}
	switch cfg.SessionStore {
	case "memory", "redis":
	case "mysql":
		cfg.DB = DBConfig{
			User: must("DB_USER"),      // database user
			Pass: os.Getenv("DB_PASS"), // database password (empty allowed)
			Host: must("DB_HOST"),      // database host
			Port: envStr("DB_PORT", "3306"),
			Name: must("DB_NAME"), // database name
		}
	default:
		log.Fatalf("invalid SESSION_STORE: %q (want memory, redis or mysql)", cfg.SessionStore)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
