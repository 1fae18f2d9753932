package env

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type EnvService struct{}

func NewEnvService() *EnvService {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found (this is OK for CI/CD)")
	}
	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
