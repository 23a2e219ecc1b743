// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultJWTTTLHours  = 24
	defaultDriver       = "mysql"
	defaultUploadDir    = "uploads"
	defaultUploadPrefix = "/uploads"
	defaultNotifyQueue  = 1024
	defaultLocation     = "UTC"
)

type Config struct {
	Address        string
	ContextTimeout time.Duration
	LogLevel       string
	LogFormat      string

	Database Database
	Cache    Cache

	JWTSecret []byte
	JWTTTL    time.Duration
	JWTIssuer string

	UploadDir          string
	UploadURLPrefix    string
	BloomBitSize       uint64
	NotifyQueueSize    int
	AllowedOriginsCORS string
}

type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Pass     string
	Name     string
	Location string
}

// DSN renders the driver specific connection string.
func (d Database) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			d.Host, d.Port, d.User, d.Pass, d.Name, d.Location)
	default:
		connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", d.User, d.Pass, d.Host, d.Port, d.Name)
		val := url.Values{}
		val.Add("parseTime", "1")
		val.Add("charset", "utf8mb4")
		val.Add("loc", d.Location)
		return fmt.Sprintf("%s?%s", connection, val.Encode())
	}
}

type Cache struct {
	Host string
	Port string
	Pass string
	DB   int
}

// Enabled reports whether a redis host was configured.
func (c Cache) Enabled() bool {
	return c.Host != ""
}

func (c Cache) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded, using process environment")
	}

	cfg := Config{
		Address:   getEnv("SERVER_ADDRESS", defaultAddress),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Database: Database{
			Driver:   getEnv("DATABASE_DRIVER", defaultDriver),
			Host:     os.Getenv("DATABASE_HOST"),
			Port:     os.Getenv("DATABASE_PORT"),
			User:     os.Getenv("DATABASE_USER"),
			Pass:     os.Getenv("DATABASE_PASS"),
			Name:     os.Getenv("DATABASE_NAME"),
			Location: getEnv("DATABASE_LOCATION", defaultLocation),
		},
		Cache: Cache{
			Host: os.Getenv("CACHE_HOST"),
			Port: getEnv("CACHE_PORT", "6379"),
			Pass: os.Getenv("CACHE_PASS"),
		},
		JWTSecret:          []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:          getEnv("JWT_ISSUER", "knowledge-base"),
		UploadDir:          getEnv("UPLOAD_DIR", defaultUploadDir),
		UploadURLPrefix:    getEnv("UPLOAD_URL_PREFIX", defaultUploadPrefix),
		AllowedOriginsCORS: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	cacheDB, err := strconv.Atoi(os.Getenv("CACHE_DB"))
	if err != nil {
		logrus.Debug("failed to parse CACHE_DB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	cfg.Cache.DB = cacheDB

	timeout, err := strconv.Atoi(os.Getenv("CONTEXT_TIMEOUT"))
	if err != nil || timeout <= 0 {
		logrus.Debug("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	cfg.ContextTimeout = time.Duration(timeout) * time.Second

	jwtTTL, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil || jwtTTL <= 0 {
		logrus.Debug("failed to parse JWT TTL, using default 24 hours")
		jwtTTL = defaultJWTTTLHours
	}
	cfg.JWTTTL = time.Duration(jwtTTL) * time.Hour

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil || bloomBitSize == 0 {
		logrus.Debug("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	cfg.BloomBitSize = bloomBitSize

	queue, err := strconv.Atoi(os.Getenv("NOTIFY_QUEUE_SIZE"))
	if err != nil || queue <= 0 {
		queue = defaultNotifyQueue
	}
	cfg.NotifyQueueSize = queue

	return cfg
}

// Validate reports configuration that makes serving impossible.
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// ConfigureLogger applies level and format to the standard logrus logger.
func (c Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
