package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Processor ProcessorConfig
	Transfer  TransferConfig
	Server    ServerConfig
	Redis     RedisConfig
	Session   SessionConfig
	Auth      AuthConfig
	Defaults  DefaultsConfig
}

type ProcessorConfig struct {
	APIKey        string
	WebhookSecret string
	Environment   string
}

type TransferConfig struct {
	APIKey      string
	ProfileID   string
	Environment string
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL               string
	WorkerConcurrency int
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

type AuthConfig struct {
	JWTSecret      string
	Issuer         string
	InternalSecret string
}

type DefaultsConfig struct {
	Currency string
	Debug    bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		Processor: ProcessorConfig{
			APIKey:        os.Getenv("PROCESSOR_API_KEY"),
			WebhookSecret: os.Getenv("PROCESSOR_WEBHOOK_SECRET"),
			Environment:   getEnv("PROCESSOR_ENVIRONMENT", "sandbox"),
		},
		Transfer: TransferConfig{
			APIKey:      os.Getenv("TRANSFER_API_KEY"),
			ProfileID:   os.Getenv("TRANSFER_PROFILE_ID"),
			Environment: getEnv("TRANSFER_ENVIRONMENT", "sandbox"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			URL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
			WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			Domain: os.Getenv("SESSION_DOMAIN"),
			MaxAge: getEnvInt("SESSION_MAX_AGE", 86400),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			Issuer:         getEnv("JWT_ISSUER", "borderpay-payment-api"),
			InternalSecret: os.Getenv("INTERNAL_API_SECRET"),
		},
		Defaults: DefaultsConfig{
			Currency: getEnv("DEFAULT_CURRENCY", "USD"),
			Debug:    getEnvBool("DEBUG", false),
		},
	}

	if cfg.Processor.APIKey == "" {
		log.Fatalf("PROCESSOR_API_KEY is not set. Add it to your environment or to a .env file in the working directory:\n\n" +
			"  PROCESSOR_API_KEY=sk_test_...\n  PROCESSOR_WEBHOOK_SECRET=whsec_...\n\n" +
			"The keys are available from the processor dashboard under Developers > API keys.")
	}
	if cfg.Transfer.APIKey == "" {
		log.Fatalf("TRANSFER_API_KEY is not set. Add it to your environment or to a .env file in the working directory:\n\n" +
			"  TRANSFER_API_KEY=...\n  TRANSFER_PROFILE_ID=...\n\n" +
			"Both values are issued with the transfer provider's API access settings.")
	}
	if cfg.Session.Secret == "" {
		log.Printf("Warning: SESSION_SECRET not set, generating an ephemeral one; sessions will not survive a restart")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: %s is not an integer, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
