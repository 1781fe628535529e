package config

import (
	"os"
	"strconv"
)

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type PDFConfig struct {
	// BinaryPath locates the wkhtmltopdf executable. A bare name is
	// resolved through PATH.
	BinaryPath string
	// TimeoutSeconds bounds a single conversion.
	TimeoutSeconds int
}

type Config struct {
	Server ServerConfig
	PDF    PDFConfig
	// DatabaseDSN is either a postgres:// URL or a sqlite file path.
	DatabaseDSN string
	Env         string
}

// Load reads configuration from the environment with sensible defaults.
// Values are read once at startup and never mutated afterwards.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("IDLE_TIMEOUT", 60),
		},
		PDF: PDFConfig{
			BinaryPath:     getEnv("WKHTMLTOPDF_PATH", "wkhtmltopdf"),
			TimeoutSeconds: getEnvInt("PDF_TIMEOUT", 30),
		},
		DatabaseDSN: getEnv("DATABASE_DSN", "billing.db"),
		Env:         getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
