package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	BaseURL         string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	CorsOrigins     []string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	CacheTTL      time.Duration

	JWTSecret  string
	JWTJWKSURL string

	MailProvider       string
	MailFrom           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		BaseURL:         strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "devevent"),
		CorsOrigins:     splitList(getEnvWithDefault("CORS_ORIGINS", "http://localhost:3000")),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnvWithDefault("CLOUDINARY_FOLDER", "DevEvent"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi(os.Getenv("REDIS_DB")),
		RedisTLS:      strings.EqualFold(os.Getenv("REDIS_TLS"), "true"),
		CacheTTL:      parseDur(getEnvWithDefault("CACHE_TTL", "1h"), time.Hour),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTJWKSURL: os.Getenv("JWT_JWKS_URL"),

		MailProvider:       getEnvWithDefault("MAIL_PROVIDER", "noop"),
		MailFrom:           getEnvWithDefault("MAIL_FROM", "no-reply@devevent.local"),
		AWSRegion:          getEnvWithDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if len(cfg.CorsOrigins) == 0 {
		cfg.CorsOrigins = []string{"http://localhost:3000"}
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL is required")
	}
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}

	return cfg, nil
}

// MongoURI returns the connection string with the <password> placeholder filled in.
func (c *Config) MongoURI() string {
	if c.MongoDBPassword == "" {
		return c.MongoDBURI
	}
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AuthEnabled reports whether organizer edits can be verified.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" || c.JWTJWKSURL != ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
