package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AuthNet AuthNetConfig
	Server  ServerConfig
	Redis   RedisConfig
}

// AuthNetConfig holds the gateway credentials and environment. Endpoint
// overrides the environment-derived request URL when set; tests use it to
// point the client at a local server.
type AuthNetConfig struct {
	APILoginID     string
	TransactionKey string
	Environment    string
	Endpoint       string
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		AuthNet: AuthNetConfig{
			APILoginID:     os.Getenv("AUTHNET_API_LOGIN_ID"),
			TransactionKey: os.Getenv("AUTHNET_TRANSACTION_KEY"),
			Environment:    os.Getenv("AUTHNET_ENVIRONMENT"),
			Endpoint:       os.Getenv("AUTHNET_ENDPOINT"),
		},
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	return cfg
}
