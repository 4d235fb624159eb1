package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var AppEnv Config

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	MongoURI       string
	DBName         string
	DBTimeout      time.Duration
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
	AllowedOrigins []string
}

// Load reads .env (when present) and the process environment into AppEnv.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "storefront"),
		DBTimeout:      getDurationEnv("DB_TIMEOUT_SECONDS", 5, time.Second),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		BcryptCost:     getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
		AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, errors.New("BCRYPT_COST is out of range"))
	}
	return errors.Join(errs...)
}
