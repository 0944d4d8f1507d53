package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"connectly/internal/httputil"
	"connectly/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// IdentityKey is the context key for the authenticated model.Identity
	IdentityKey contextKey = "identity"
)

var errMissingToken = errors.New("missing token")

// AuthMiddleware creates a middleware that requires a valid JWT.
// Checks Authorization header first (for mobile), then falls back to cookie (for web).
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(r, jwtSecret)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuthMiddleware attaches the identity when a token is present.
// Requests without a token continue anonymously; a bad token is still rejected.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(r, jwtSecret)
			if errors.Is(err, errMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	// 1. Authorization header: "Bearer <token>"
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2. Cookie (web browsers)
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func authenticate(r *http.Request, jwtSecret string) (model.Identity, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return model.Identity{}, errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return model.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}
	username, _ := claims["username"].(string)

	return model.Identity{UserID: int64(userIDFloat), Username: username}, nil
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errMissingToken):
		httputil.WriteUnauthorized(w, "Missing authentication token")
	case errors.Is(err, jwt.ErrTokenExpired):
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid token claims")
	default:
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext returns the request identity, or the anonymous
// zero value when none was attached.
func IdentityFromContext(ctx context.Context) model.Identity {
	identity, _ := ctx.Value(IdentityKey).(model.Identity)
	return identity
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or 0 and false if not found
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	identity := IdentityFromContext(ctx)
	return identity.UserID, identity.Authenticated()
}
