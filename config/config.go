package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Partition is one value of the search filter dimension used to slice the
// result space. The platform caps what a single query can see, so big
// harvests walk every partition in turn.
type Partition struct {
	Name string // human label, e.g. "CDMX"
	Slug string // site-specific filter token, e.g. "LOC-21957"
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Site     string
	Username string
	Password string
	BaseURL  string

	QueuePath string
	FinalPath string

	TargetCount       int
	BatchSize         int
	MaxPagesPerRegion int
	EmptyPagePatience int
	MaxRetries        int

	NavigateTimeout time.Duration
	ElementTimeout  time.Duration
	DetailTimeout   time.Duration
	LoginTimeout    time.Duration
	PageDelayMs     int

	Partitions []Partition

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ChromeBin string
	Headless  bool
}

// defaultPartitions mirrors the location filters the talent search exposes.
// Overridable with SCRAPE_PARTITIONS ("Name:SLUG,Name:SLUG,...").
var defaultPartitions = []Partition{
	{Name: "CDMX", Slug: "LOC-21957"},
	{Name: "Edo Mex", Slug: "LOC-60991"},
	{Name: "Nuevo León", Slug: "LOC-83091"},
	{Name: "Oaxaca", Slug: "LOC-87725"},
	{Name: "Querétaro", Slug: "LOC-99788"},
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Site:     getEnv("SCRAPE_SITE", "occ"),
		Username: getEnv("OCC_USERNAME", ""),
		Password: getEnv("OCC_PASSWORD", ""),
		BaseURL:  getEnv("OCC_BASE_URL", "https://www.occ.com.mx/empresas/"),

		QueuePath: getEnv("QUEUE_PATH", "./data/cola_pendientes.jsonl"),
		FinalPath: getEnv("FINAL_PATH", "./data/candidatos_completos.jsonl"),

		TargetCount:       getEnvInt("TARGET_COUNT", 200),
		BatchSize:         getEnvInt("BATCH_SIZE", 50),
		MaxPagesPerRegion: getEnvInt("MAX_PAGES_PER_REGION", 10),
		EmptyPagePatience: getEnvInt("HARVEST_EMPTY_PAGE_PATIENCE", 2),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),

		NavigateTimeout: getEnvDuration("NAVIGATE_TIMEOUT", 60*time.Second),
		ElementTimeout:  getEnvDuration("ELEMENT_TIMEOUT", 10*time.Second),
		DetailTimeout:   getEnvDuration("DETAIL_TIMEOUT", 45*time.Second),
		LoginTimeout:    getEnvDuration("LOGIN_TIMEOUT", 5*time.Minute),
		PageDelayMs:     getEnvInt("PAGE_DELAY_MS", 2000),

		Partitions: parsePartitions(getEnv("SCRAPE_PARTITIONS", "")),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "reclutamiento_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("HEADLESS", true),
	}
}

// ValidateCredentials checks the fields the browser phases cannot run
// without. Called before any session opens so a misconfigured run aborts
// with nothing written.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "OCC_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "OCC_PASSWORD")
	}
	if c.BaseURL == "" {
		missing = append(missing, "OCC_BASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
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

// parsePartitions parses "Name:SLUG,Name:SLUG". Malformed entries are
// skipped; an empty or fully malformed value falls back to the defaults.
func parsePartitions(raw string) []Partition {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPartitions
	}

	var parts []Partition
	for _, entry := range strings.Split(raw, ",") {
		pieces := strings.SplitN(entry, ":", 2)
		if len(pieces) != 2 {
			continue
		}
		name := strings.TrimSpace(pieces[0])
		slug := strings.TrimSpace(pieces[1])
		if name == "" || slug == "" {
			continue
		}
		parts = append(parts, Partition{Name: name, Slug: slug})
	}
	if len(parts) == 0 {
		return defaultPartitions
	}
	return parts
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
