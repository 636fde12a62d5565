package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Backends BackendConfig
}

// AppConfig holds the service's own settings. The JWT secret is not here:
// serverutils reads JWT_SECRET from the environment directly, keeping one
// source of truth for the signing key.
type AppConfig struct {
	Port               string
	Environment        string
	LogLevel           string
	LogFilePath        string
	CorsAllowedOrigins string
}

// BackendConfig addresses the three external services as host:port. The
// literal "None" disables a backend and substitutes fixture data, the
// convention used for detached development and testing.
type BackendConfig struct {
	Auth       string
	Directory  string
	Classifier string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8082"),
			Environment:        getEnv("GO_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "INFO"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "log.txt"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Backends: BackendConfig{
			Auth:       getEnv("LOGIN_API_ADDRESS", "127.0.0.1:8084"),
			Directory:  getEnv("CDN_API_ADDRESS", "127.0.0.1:8086"),
			Classifier: getEnv("CLASSIFIER_API_ADDRESS", "127.0.0.1:8088"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
