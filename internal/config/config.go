package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type Config struct {
	SourceURL      string
	UserAgent      string
	AcceptLanguage string
	FetchTimeout   time.Duration
	FetchMode      string // "http" ou "chrome"

	DatabaseDriver string // "postgres" ou "sqlite"
	DatabaseURL    string
	SourceTag      string
	DateFallback   string // "none" ou "today"

	OutputPath   string
	CSVDelimiter string
	CSVEncoding  string

	RedisURL       string
	LockTTL        time.Duration
	MetricsPort    string
	PushgatewayURL string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		SourceURL:      getEnv("SOJA_URL", "https://agrural.com.br/precossojaemilho/"),
		UserAgent:      getEnv("USER_AGENT", DefaultUserAgent),
		AcceptLanguage: getEnv("ACCEPT_LANGUAGE", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchMode:      getEnv("FETCH_MODE", "http"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SourceTag:      getEnv("SOURCE_TAG", "AgRural"),
		DateFallback:   getEnv("DATE_FALLBACK", "none"),
		OutputPath:     getEnv("OUTPUT_PATH", "soja_agrural.csv"),
		CSVDelimiter:   getEnv("CSV_DELIMITER", ","),
		CSVEncoding:    getEnv("CSV_ENCODING", "utf-8"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LockTTL:        getEnvDuration("LOCK_TTL", 5*time.Minute),
		MetricsPort:    os.Getenv("METRICS_PORT"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}
}

// FallbackToday reports whether an unresolved page date may be replaced by today.
func (c *Config) FallbackToday() bool {
	return c.DateFallback == "today"
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
		// aceita segundos puros, ex.: FETCH_TIMEOUT=45
		if n := getEnvInt(k, -1); n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return d
}
