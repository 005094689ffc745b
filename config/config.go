package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort     string
	AppMode     string
	AppEnv      string
	AppVersion  string
	LogLevel    string
	AutoMigrate bool

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	BlobBackend     string
	MongoURL        string
	MongoDB         string
	MongoCollection string

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Prefix    string

	RedisURL           string
	RedisEventsChannel string

	NATSURL           string
	NATSSubjectPrefix string

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	MaxUploadBytes      int64
	ListConcurrency     int
	EventMaxSubscribers int
	RateLimitAuth       int
	RateLimitUpload     int
	CORSAllowedOrigins  []string
	TrustedProxies      []string
}

const (
	BlobBackendMongo = "mongo"
	BlobBackendS3    = "s3"
	BlobBackendRedis = "redis"
)

// LoadConfig reads .env, then the optional YAML file named by CONFIG_FILE,
// then the process environment. Environment values win.
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := loadYAMLFile(path)
		if err != nil {
			log.Printf("Ignoring config file %s: %v", path, err)
		} else {
			src.file = values
		}
	}

	return src.build()
}

func (s source) build() *Config {
	return &Config{
		AppPort:     s.getEnv("APP_PORT", "8000"),
		AppMode:     s.getEnv("APP_MODE", "debug"),
		AppEnv:      s.getEnv("APP_ENV", "development"),
		AppVersion:  s.getEnv("APP_VERSION", "1.0.0"),
		LogLevel:    s.getEnv("LOG_LEVEL", "info"),
		AutoMigrate: s.getEnvAsBool("AUTO_MIGRATE", true),

		DBHost:     s.getEnv("DB_HOST", "localhost"),
		DBUser:     s.getEnv("DB_USER", "postgres"),
		DBPassword: s.getEnv("DB_PASSWORD", "postgres"),
		DBName:     s.getEnv("DB_NAME", "mediapost"),
		DBPort:     s.getEnv("DB_PORT", "5432"),
		DBSSLMode:  s.getEnv("DB_SSLMODE", "disable"),

		BlobBackend:     strings.ToLower(s.getEnv("BLOB_BACKEND", BlobBackendMongo)),
		MongoURL:        s.getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:         s.getEnv("MONGO_DB", "mediapost"),
		MongoCollection: s.getEnv("MONGO_COLLECTION", "files"),

		S3Region:    s.getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    s.getEnv("S3_BUCKET", ""),
		S3AccessKey: s.getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: s.getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:  s.getEnv("S3_ENDPOINT", ""),
		S3Prefix:    s.getEnv("S3_PREFIX", "files/"),

		RedisURL:           s.getEnv("REDIS_URL", ""),
		RedisEventsChannel: s.getEnv("REDIS_EVENTS_CHANNEL", "channel:posts:events"),

		NATSURL:           s.getEnv("NATS_URL", ""),
		NATSSubjectPrefix: s.getEnv("NATS_SUBJECT_PREFIX", "posts.events"),

		JWTSecret:    s.getEnv("JWT_SECRET", "change-me"),
		JWTExpiresIn: s.getEnvAsDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:   s.getEnvAsInt("BCRYPT_COST", 10),

		MaxUploadBytes:      int64(s.getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		ListConcurrency:     s.getEnvAsInt("LIST_CONCURRENCY", 8),
		EventMaxSubscribers: s.getEnvAsInt("EVENT_MAX_SUBSCRIBERS", 25),
		RateLimitAuth:       s.getEnvAsInt("RATE_LIMIT_AUTH", 5),
		RateLimitUpload:     s.getEnvAsInt("RATE_LIMIT_UPLOAD", 30),
		CORSAllowedOrigins:  splitList(s.getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustedProxies:      splitList(s.getEnv("TRUSTED_PROXIES", "")),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// source resolves a key from the environment first and the YAML file second.
type source struct {
	file map[string]string
}

func loadYAMLFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	values := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

func (s source) getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := s.file[key]; exists {
		return value
	}
	return fallback
}

func (s source) getEnvAsInt(key string, fallback int) int {
	valueStr := s.getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func (s source) getEnvAsBool(key string, fallback bool) bool {
	valueStr := s.getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func (s source) getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := s.getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// "7d" style values
	if strings.HasSuffix(valueStr, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(valueStr, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
