package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string
	LogLevel    string

	// DecimalSeparator is the store's price decimal separator.
	DecimalSeparator string
	CombineFees      bool
	FeeTaxable       bool
	FeeTaxClass      string
	BatchWorkers     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "wcpf"),
		DBPassword:       getEnv("DB_PASSWORD", "wcpf_secret"),
		DBName:           getEnv("DB_NAME", "wcpf"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:      getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DecimalSeparator: getEnv("PRICE_DECIMAL_SEPARATOR", "."),
		CombineFees:      getEnv("FEE_COMBINE", "true") == "true",
		FeeTaxable:       getEnv("FEE_TAXABLE", "false") == "true",
		FeeTaxClass:      getEnv("FEE_TAX_CLASS", ""),
		BatchWorkers:     getIntEnv("BATCH_WORKERS", 4),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
