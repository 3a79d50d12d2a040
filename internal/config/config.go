package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone data for scratch images

	"taskquest/internal/logger"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseURL string
	SQLitePath  string
	JWTSecret   string
	JWTTTL      time.Duration
	// JobToken guards the batch job endpoints when non-empty.
	JobToken string
	Location *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits: requests per window (seconds)
	APIRateLimit   int
	APIRateWindow  int
	AuthRateLimit  int
	AuthRateWindow int
	UserRateLimit  int
	UserRateWindow int

	LogLevel string
	LogJSON  bool
	LogFile  string

	SchedulerEnabled bool
	RefreshAt        string // HH:MM in Location
	PenaltyAt        string
	SeedCatalog      bool
	CORSOrigins      []string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	if driver != DriverPostgres && driver != DriverSQLite {
		logger.Fatal("DB_DRIVER must be postgres or sqlite", "value", driver)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if driver == DriverPostgres && dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	tzName := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		logger.Fatal("invalid APP_TIMEZONE", "value", tzName, "error", err)
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		DBDriver:    driver,
		DatabaseURL: dbURL,
		SQLitePath:  getEnv("SQLITE_PATH", "taskquest.db"),
		JWTSecret:   jwtSecret,
		JWTTTL:      time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		JobToken:    os.Getenv("JOB_TOKEN"),
		Location:    loc,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		APIRateLimit:   getInt("API_RATE_LIMIT", 300),
		APIRateWindow:  getInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getInt("AUTH_RATE_WINDOW_SECONDS", 60),
		UserRateLimit:  getInt("USER_RATE_LIMIT", 60),
		UserRateWindow: getInt("USER_RATE_WINDOW_SECONDS", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
		LogFile:  os.Getenv("LOG_FILE"),

		SchedulerEnabled: os.Getenv("SCHEDULER_ENABLED") == "true",
		RefreshAt:        getEnv("REFRESH_AT", "00:01"),
		PenaltyAt:        getEnv("PENALTY_AT", "00:05"),
		SeedCatalog:      getEnv("SEED_CATALOG", "true") == "true",
		CORSOrigins:      origins,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt returns the non-negative integer in key, or def when unset or invalid.
func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
