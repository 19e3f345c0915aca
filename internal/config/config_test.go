package config

import (
	"reflect"
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "lexical")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REPORT_SCHEDULE", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenTTL <= 0 || cfg.RequestTimeout <= 0 || cfg.EnhanceConcurrency < 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.AIEnabled() {
		t.Error("AI must be disabled without an API key")
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "Embedding")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ENHANCE_CONCURRENCY", "8")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REPORT_SCHEDULE", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClassifierBackend != BackendEmbedding || !cfg.AIEnabled() {
		t.Errorf("backend = %q", cfg.ClassifierBackend)
	}
	if cfg.TokenTTL != 30*time.Minute || cfg.EnhanceConcurrency != 8 {
		t.Errorf("ttl = %v, concurrency = %d", cfg.TokenTTL, cfg.EnhanceConcurrency)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("origins = %v", cfg.CORSOrigins)
	}
}

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"blank jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"blank hmac secret", map[string]string{"HMAC_SECRET": ""}},
		{"unknown backend", map[string]string{"CLASSIFIER_BACKEND": "bert"}},
		{"embedding without key", map[string]string{"CLASSIFIER_BACKEND": "embedding", "GEMINI_API_KEY": ""}},
		{"schedule without company", map[string]string{"REPORT_SCHEDULE": "@daily", "REPORT_COMPANY_ID": ""}},
		{"schedule without smtp", map[string]string{
			"REPORT_SCHEDULE": "@daily", "REPORT_COMPANY_ID": "acme",
			"REPORT_RECIPIENTS": "cfo@acme.test", "SMTP_HOST": "",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLASSIFIER_BACKEND", "lexical")
			t.Setenv("REPORT_SCHEDULE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := NewConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
