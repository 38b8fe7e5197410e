package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAvatarLink is stored for users who register without a profile picture.
const DefaultAvatarLink = "https://drive.google.com/thumbnail?id=1z1GP6qBTsl8uLLEqAjexZwTa1KPSEnRS&sz=w1920-h1080"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	StoreDriver    string
	DatabaseDSN    string
	DBMaxOpenConns int
	MongoURI       string
	MongoDatabase  string
	ResetDB        bool

	RedisAddr    string
	RedisDB      int
	RedisPass    string
	UserCacheTTL time.Duration

	StorageDriver        string
	StorageEndpoint      string
	StorageRegion        string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageUseSSL        bool
	StorageBucket        string
	StoragePublicBaseURL string
	AvatarPrefix         string
	DefaultAvatarLink    string
	MaxUploadSize        string

	BcryptCost int

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is honoured but never overrides the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "3000"),

		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", "mysql")),
		DatabaseDSN:    getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/cribhub?charset=utf8mb4&parseTime=True&loc=Local"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "cribhub"),
		ResetDB:        getEnvBool("RESET_DB", false),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		UserCacheTTL: getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		StorageDriver:        strings.ToLower(getEnv("STORAGE_DRIVER", "minio")),
		StorageEndpoint:      getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageRegion:        getEnv("STORAGE_REGION", "us-east-1"),
		StorageAccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:     os.Getenv("STORAGE_SECRET_KEY"),
		StorageUseSSL:        getEnvBool("STORAGE_USE_SSL", false),
		StorageBucket:        getEnv("STORAGE_BUCKET", "cribhub-avatars"),
		StoragePublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		AvatarPrefix:         getEnv("AVATAR_PREFIX", "avatars/"),
		DefaultAvatarLink:    getEnv("DEFAULT_AVATAR_LINK", DefaultAvatarLink),
		MaxUploadSize:        getEnv("MAX_UPLOAD_SIZE", "10M"),

		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
		LogCompress:   getEnvBool("LOG_COMPRESS", false),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
