package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/utils"
	"github.com/gorilla/mux"
)

type contextKey string

const (
	companyIDKey contextKey = "companyID"
	userIDKey    contextKey = "userID"

	sessionCookie = "session_token"
)

// AuthMiddleware requires a valid token in the Authorization header or the session cookie
func AuthMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized")
				return
			}
			claims, err := utils.ParseToken(token, cfg.JWTSecret)
			if err != nil {
				unauthorized(w, "Invalid session")
				return
			}

			ctx := context.WithValue(r.Context(), companyIDKey, claims.CompanyID)
			ctx = context.WithValue(ctx, userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CompanyID returns the company of the authenticated caller
func CompanyID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(companyIDKey).(string)
	return id, ok && id != ""
}

// WithCompanyID stores a company on the context, as the auth middleware does
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		return ""
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
