// Package middleware provides HTTP middleware for the Plate Share API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/plateshare/plateshare/internal/auth"
	"github.com/plateshare/plateshare/internal/model"
)

// IdentityCache caches verified identities keyed by token digest.
// A nil cache disables caching; every request is then verified.
type IdentityCache interface {
	GetIdentity(ctx context.Context, digest string) (*model.Identity, error)
	SetIdentity(ctx context.Context, digest string, id *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier auth.Verifier
	Cache    IdentityCache
}

// Auth returns a middleware that authenticates API requests. It extracts
// the bearer token from the Authorization header, verifies it, and injects
// the verified identity into the request context. Requests without a valid
// token are rejected with 401 before the handler runs.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			digest := auth.TokenDigest(token)

			// Check cache first
			if cfg.Cache != nil {
				if id, _ := cfg.Cache.GetIdentity(r.Context(), digest); id != nil {
					cfg.Logger.Info("authentication successful",
						slog.String("email", id.Email),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.Bool("cache_hit", true),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					ctx := auth.ContextWithIdentity(r.Context(), id)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			id, err := cfg.Verifier.Verify(r.Context(), token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("error", err.Error()),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetIdentity(r.Context(), digest, id)
			}

			cfg.Logger.Info("authentication successful",
				slog.String("email", id.Email),
				slog.String("subject", id.Subject),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Bool("cache_hit", false),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" for a missing or malformed header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// writeAuthError writes a 401 Unauthorized response.
// The body is identical for every failure mode.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
}
