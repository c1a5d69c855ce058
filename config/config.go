package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Pagination PaginationConfig
	Media      MediaConfig
	S3         S3Config
	Redis      RedisConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// MediaConfig controls how stored image keys are turned into absolute URLs.
// When BaseURL is empty the request host is used together with LocalPrefix.
type MediaConfig struct {
	BaseURL     string
	LocalPrefix string
	LocalDir    string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// AdminConfig seeds an initial admin account when both values are set.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			GinMode:     v.GetString("GIN_MODE"),
			Environment: v.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			AccessTokenExpiry:  v.GetDuration("JWT_ACCESS_TOKEN_EXPIRY"),
			RefreshTokenExpiry: v.GetDuration("JWT_REFRESH_TOKEN_EXPIRY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(v.GetString("ALLOWED_ORIGINS")),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: v.GetInt("PAGE_SIZE"),
			MaxPageSize:     v.GetInt("MAX_PAGE_SIZE"),
		},
		Media: MediaConfig{
			BaseURL:     strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
			LocalPrefix: v.GetString("MEDIA_URL_PREFIX"),
			LocalDir:    v.GetString("MEDIA_ROOT"),
		},
		S3: S3Config{
			Region:          v.GetString("AWS_REGION"),
			Bucket:          v.GetString("AWS_S3_BUCKET"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			BaseURL:         v.GetString("AWS_S3_BASE_URL"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.Pagination.DefaultPageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", config.Pagination.DefaultPageSize)
	}
	if config.Pagination.MaxPageSize < config.Pagination.DefaultPageSize {
		config.Pagination.MaxPageSize = config.Pagination.DefaultPageSize
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("ENVIRONMENT", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "catalog")
	v.SetDefault("DB_PASSWORD", "catalog")
	v.SetDefault("DB_NAME", "catalog")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)

	v.SetDefault("JWT_SECRET", "your-secret-key")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_TOKEN_EXPIRY", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)

	v.SetDefault("MEDIA_BASE_URL", "")
	v.SetDefault("MEDIA_URL_PREFIX", "/media")
	v.SetDefault("MEDIA_ROOT", "./media")

	v.SetDefault("AWS_REGION", "ap-northeast-2")
	v.SetDefault("AWS_S3_BUCKET", "catalog-uploads")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_S3_BASE_URL", "")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
