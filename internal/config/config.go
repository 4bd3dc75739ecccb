// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Storage     StorageConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	PublicDir    string
}

type DatabaseConfig struct {
	Type         string // mysql, postgres or sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	QueryTimeout int // seconds; conservative cap on every store call
	LogLevel     string
	SeedDemoData bool
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

type StorageConfig struct {
	Driver        string // local or s3
	UploadDir     string
	AWSRegion     string
	S3Bucket      string
	CloudFrontURL string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			PublicDir:    getEnv("PUBLIC_DIR", "./public"),
		},
		Database: DatabaseConfig{
			Type:         getEnv("DB_TYPE", "mysql"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			User:         getEnv("DB_USER", "pim"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "pim_database"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:   getEnv("SQLITE_PATH", "./database/pim_database.sqlite"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			QueryTimeout: getEnvAsInt("DB_QUERY_TIMEOUT", 10),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
			SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
			S3Bucket:      getEnv("AWS_S3_BUCKET", "pim-product-images"),
			CloudFrontURL: getEnv("AWS_CLOUDFRONT_URL", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	switch c.Database.Type {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Storage.Driver == "s3" && c.Storage.S3Bucket == "" {
		return fmt.Errorf("S3 storage requires AWS_S3_BUCKET")
	}

	return nil
}

// DSN builds the connection string for the configured networked store.
func (d DatabaseConfig) DSN() string {
	switch d.Type {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			d.Host, d.User, d.Password, d.Database, d.Port, d.SSLMode)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Database)
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
