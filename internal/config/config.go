package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Classifier backends
const (
	BackendLexical   = "lexical"
	BackendEmbedding = "embedding"
)

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	LogLevel       string
	JWTSecret      string
	TokenTTL       time.Duration
	HMACSecret     string
	CORSOrigins    []string
	RequestTimeout time.Duration

	// Classification
	ClassifierBackend string
	ExemplarsFile     string

	// Gemini
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string
	EnhanceConcurrency   int

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Scheduled reports
	ReportSchedule   string
	ReportCompanyID  string
	ReportRecipients []string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBConn:         getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=consolidation sslmode=disable"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 24*time.Hour),
		HMACSecret:     getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 2*time.Minute),

		ClassifierBackend: strings.ToLower(getEnv("CLASSIFIER_BACKEND", BackendLexical)),
		ExemplarsFile:     getEnv("EXEMPLARS_FILE", ""),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		EnhanceConcurrency:   getEnvInt("ENHANCE_CONCURRENCY", 4),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", ""),

		ReportSchedule:   getEnv("REPORT_SCHEDULE", ""),
		ReportCompanyID:  getEnv("REPORT_COMPANY_ID", ""),
		ReportRecipients: getEnvList("REPORT_RECIPIENTS", nil),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	switch cfg.ClassifierBackend {
	case BackendLexical:
	case BackendEmbedding:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the embedding classifier")
		}
	default:
		return nil, fmt.Errorf("unknown CLASSIFIER_BACKEND %q", cfg.ClassifierBackend)
	}
	if cfg.ReportSchedule != "" {
		if cfg.ReportCompanyID == "" {
			return nil, fmt.Errorf("REPORT_COMPANY_ID is required when REPORT_SCHEDULE is set")
		}
		if len(cfg.ReportRecipients) == 0 {
			return nil, fmt.Errorf("REPORT_RECIPIENTS is required when REPORT_SCHEDULE is set")
		}
		if cfg.SMTPHost == "" || cfg.SenderEmail == "" {
			return nil, fmt.Errorf("SMTP_HOST and SENDER_EMAIL are required when REPORT_SCHEDULE is set")
		}
	}

	return cfg, nil
}

// AIEnabled reports whether an LLM key is configured
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
