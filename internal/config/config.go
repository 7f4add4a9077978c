package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStoreDynamoDB = "dynamodb"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Session   SessionConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	OTP       OTPConfig
	SMTP      SMTPConfig
	UserEmail string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type SessionConfig struct {
	Store     string
	SecretKey string
	Expiry    time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type OTPConfig struct {
	// Expiry of zero disables expiry.
	Expiry   time.Duration
	HashCost int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 45*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			Store:     getEnv("SESSION_STORE", SessionStoreMemory),
			SecretKey: getEnv("SESSION_SECRET_KEY", ""),
			Expiry:    getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "PassguardSessions"),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTP: OTPConfig{
			Expiry:   getEnvAsDuration("OTP_EXPIRY", 0),
			HashCost: getEnvAsInt("OTP_HASH_COST", bcrypt.DefaultCost),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_SERVER", ""),
			Port:     getEnvAsInt("SMTP_PORT", 2525),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@example.com"),
			Timeout:  getEnvAsDuration("SMTP_TIMEOUT", 30*time.Second),
		},
		UserEmail: getEnv("USER_EMAIL", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.SecretKey == "" {
		return fmt.Errorf("SESSION_SECRET_KEY environment variable is required")
	}

	if len(c.Session.SecretKey) < 32 {
		return fmt.Errorf("SESSION_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis, SessionStoreDynamoDB:
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, redis, dynamodb; got %q", c.Session.Store)
	}

	if c.Session.Expiry <= 0 {
		return fmt.Errorf("SESSION_EXPIRY must be positive")
	}

	if c.OTP.Expiry < 0 {
		return fmt.Errorf("OTP_EXPIRY must not be negative")
	}

	if c.OTP.HashCost < bcrypt.MinCost || c.OTP.HashCost > bcrypt.MaxCost {
		return fmt.Errorf("OTP_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP_SERVER environment variable is required")
	}

	return nil
}

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
