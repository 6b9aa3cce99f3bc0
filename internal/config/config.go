package config

import (
	"crypto/rand"
	"log"
	"math/big"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is built once at startup and
// passed into the components that need it; nothing reads the environment
// after New returns.
type Config struct {
	// Server configuration
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`

	// Database configuration
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"docuvault"`

	// Redis configuration (document list cache)
	RedisAddress string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`

	// JWT configuration
	JWTSecret string `env:"JWT_SECRET"`

	// Admin bootstrap secrets; seeding only happens when both are set
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Blob storage configuration
	AWSAccessKey string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion    string `env:"AWS_REGION"`
	S3Bucket     string `env:"S3_BUCKET"`
	UploadFolder string `env:"UPLOAD_FOLDER" envDefault:"docuvault"`

	FrontendAddress string `env:"FRONTEND_ADDRESS" envDefault:"https://production-frontend.com"`
}

// New loads configuration from the environment, falling back to a .env file
// if one exists next to the binary.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = generateRandomSecret(32)
		log.Println("JWT_SECRET not set, generated a random signing secret")
	}

	return cfg, nil
}

// generateRandomSecret generates a random secret of the specified length
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secret := make([]byte, length)
	for i := range secret {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		secret[i] = charset[n.Int64()]
	}
	return string(secret)
}
