package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. CLI flags override individual fields after Load.
type Config struct {
	// Target site
	GamesURL string

	// Output paths
	CSVOutputPath  string
	ScreenshotsDir string

	// Persistence backend: "csv" or "postgres"
	StoreBackend string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Timing
	RequestDelay    time.Duration // pause between games
	PageLoadTimeout time.Duration // max wait for page elements
	NetworkIdleWait time.Duration // max wait for network quiescence
	NetworkQuiet    time.Duration // quiet window that counts as quiescent
	GraphSettle     time.Duration // extra settle after network quiescence
	ListStablePoll  time.Duration // interval between list-count observations

	// Retry
	MaxRetries int
	RetryDelay time.Duration

	// Browser
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	ChromeBin      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		GamesURL: getEnv("GAMES_URL", "https://polymarket.com/sports/nba/games"),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./nba_polymarket_prices.csv"),
		ScreenshotsDir: getEnv("SCREENSHOTS_DIR", "./screenshots"),

		StoreBackend: getEnv("STORE_BACKEND", "csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "pm_prices"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RequestDelay:    getEnvSeconds("REQUEST_DELAY_S", 2),
		PageLoadTimeout: getEnvSeconds("PAGE_LOAD_TIMEOUT_S", 60),
		NetworkIdleWait: getEnvSeconds("NETWORK_IDLE_TIMEOUT_S", 30),
		NetworkQuiet:    getEnvMillis("NETWORK_QUIET_MS", 500),
		GraphSettle:     getEnvSeconds("GRAPH_RENDER_WAIT_S", 3),
		ListStablePoll:  getEnvMillis("LIST_STABLE_POLL_MS", 1000),

		MaxRetries: getEnvInt("MAX_RETRIES", 3),
		RetryDelay: getEnvSeconds("RETRY_DELAY_S", 5),

		Headless:       getEnvBool("HEADLESS", true),
		ViewportWidth:  getEnvInt("VIEWPORT_WIDTH", 1920),
		ViewportHeight: getEnvInt("VIEWPORT_HEIGHT", 1080),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}
