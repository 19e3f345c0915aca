package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/utils"
)

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "jwt-secret"}
	valid, err := utils.GenerateToken(42, "acme", "jwt-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := utils.GenerateToken(42, "acme", "jwt-secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		cookie string
		code   int
	}{
		{"bearer", "Bearer " + valid, "", http.StatusOK},
		{"cookie", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var company string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				company, _ = CompanyID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			AuthMiddleware(cfg)(next).ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.code == http.StatusOK && company != "acme" {
				t.Errorf("company = %q", company)
			}
		})
	}
}

func TestCompanyID(t *testing.T) {
	if _, ok := CompanyID(context.Background()); ok {
		t.Error("empty context must not carry a company")
	}
	if _, ok := CompanyID(WithCompanyID(context.Background(), "")); ok {
		t.Error("blank company must be rejected")
	}
	if id, ok := CompanyID(WithCompanyID(context.Background(), "acme")); !ok || id != "acme" {
		t.Errorf("company = %q, %v", id, ok)
	}
}
