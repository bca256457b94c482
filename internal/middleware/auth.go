package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/utils"
)

const identityKey contextKey = "identity"

// RoleAdmin is the role claim that grants access to every user's sessions
const RoleAdmin = "admin"

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
)

type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// VerifyToken validates the bearer token in the Authorization header
func VerifyToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return nil, ErrMissingAuthHeader
	}

	token, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// IdentityFromClaims reads "sub" and the optional "role" claim
func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	var id Identity
	switch v := claims["sub"].(type) {
	case string:
		id.UserID = v
	case float64:
		// JWT numbers decode as float64
		id.UserID = fmt.Sprintf("%d", int64(v))
	default:
		return id, ErrInvalidClaims
	}
	if id.UserID == "" {
		return id, ErrInvalidClaims
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	return id, nil
}

// Authenticate rejects requests without a valid token and stores the caller identity
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := VerifyToken(r, secret)
			if err != nil {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, models.KindUnauthorized, "Unauthorized")
				return
			}
			id, err := IdentityFromClaims(claims)
			if err != nil {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, models.KindUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin must run after Authenticate
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || !id.IsAdmin() {
			utils.WriteErrorMessage(w, http.StatusForbidden, models.KindForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
