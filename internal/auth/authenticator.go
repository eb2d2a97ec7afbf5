package auth

import (
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MrJusticeShai/odd-handyman-api/internal/apperr"
)

const (
	tokenBlacklistPrefix = "auth:token:blacklist:"
	authCookieName       = "access_token"
)

// Authenticator resolves a request's bearer token (or auth cookie) into
// verified claims, rejecting blacklisted tokens.
type Authenticator struct {
	jwtSecret []byte
	rdb       *redis.Client
}

func NewAuthenticator(jwtSecret []byte, rdb *redis.Client) *Authenticator {
	return &Authenticator{
		jwtSecret: jwtSecret,
		rdb:       rdb,
	}
}

func (a *Authenticator) Authenticate(r *http.Request) (Claims, error) {
	tokenString, err := tokenFromRequest(r)
	if err != nil {
		return Claims{}, err
	}

	claims, err := ParseToken(tokenString, a.jwtSecret)
	if err != nil {
		return Claims{}, apperr.Unauthorized("invalid or expired token")
	}

	if _, ok := ParseRole(string(claims.Role)); !ok {
		return Claims{}, apperr.Unauthorized("invalid or expired token")
	}

	if claims.ID == "" {
		return Claims{}, apperr.Unauthorized("invalid or expired token")
	}

	if a.rdb != nil {
		key := tokenBlacklistPrefix + claims.ID
		exists, err := a.rdb.Exists(r.Context(), key).Result()
		if err != nil {
			return Claims{}, err
		}
		if exists == 1 {
			return Claims{}, apperr.Unauthorized("token has been revoked")
		}
	}

	return claims, nil
}

func tokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if token, err := extractBearerToken(authHeader); err == nil {
		return token, nil
	}

	if cookie, err := r.Cookie(authCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token, nil
		}
	}

	return "", apperr.Unauthorized("authentication required")
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Unauthorized("authentication required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Unauthorized("authentication required")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperr.Unauthorized("authentication required")
	}

	return token, nil
}
