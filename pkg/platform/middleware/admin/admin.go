// Package admin guards the mutating registry endpoints with short-lived JWTs.
// Tokens are minted by cmd/tokengen (or an operator's own tooling) with the
// shared signing key.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tokengate/pkg/requestcontext"
)

const issuer = "tokengate"

// Context key for storing the admin actor identifier.
type contextKeyAdminActorID struct{}

// GetAdminActorID retrieves the admin actor identifier from the context.
// Returns empty string if not set or if this is not an admin request.
func GetAdminActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(contextKeyAdminActorID{}).(string); ok {
		return actorID
	}
	return ""
}

// IssueToken mints an admin JWT for subject, signed with HMAC-SHA256.
func IssueToken(signingKey, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
}

// RequireAdminToken rejects requests without a valid bearer token and records
// the admin actor in the context for audit attribution.
func RequireAdminToken(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				unauthorized(w)
				return
			}

			claims := &jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				return []byte(signingKey), nil
			},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithIssuer(issuer),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				logger.WarnContext(ctx, "admin token rejected",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w)
				return
			}

			ctx = context.WithValue(ctx, contextKeyAdminActorID{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
}
