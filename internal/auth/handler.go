package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrJusticeShai/odd-handyman-api/internal/dto"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
)

const loginAttemptPrefix = "auth:login:attempts:"

type Handler struct {
	service       UserService
	authenticator *Authenticator
	jwtSecret     []byte
	rdb           *redis.Client
}

func NewHandler(service UserService, authenticator *Authenticator, jwtSecret []byte, rdb *redis.Client) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
		jwtSecret:     jwtSecret,
		rdb:           rdb,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/me", h.Me)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := ValidateEmail(req.Email); err != nil {
		httpx.HandleError(w, err)
		return
	}
	if err := ValidatePassword(req.Password); err != nil {
		httpx.HandleError(w, err)
		return
	}
	if err := ValidateName(req.Name); err != nil {
		httpx.HandleError(w, err)
		return
	}

	role, ok := ParseRole(req.Role)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "role must be CUSTOMER or HANDYMAN")
		return
	}

	u := User{
		ID:           uuid.New(),
		Name:         SanitizeString(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: req.Password, // hashed in the service
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := h.service.Register(r.Context(), u); err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := dto.RegisterResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := ValidateEmail(req.Email); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Rate limit by email+ip, counting proxies via X-Forwarded-For
	ip := clientIP(r)
	key := loginAttemptPrefix + req.Email + ":" + ip
	if h.rdb != nil {
		if cnt, err := h.rdb.Get(r.Context(), key).Int64(); err == nil && cnt >= 5 {
			httpx.WriteError(w, http.StatusTooManyRequests, "too many attempts")
			return
		}
	}

	_, claims, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.rdb != nil {
			val, _ := h.rdb.Incr(r.Context(), key).Result()
			if val == 1 {
				_ = h.rdb.Expire(r.Context(), key, 10*time.Minute).Err()
			}
		}
		httpx.HandleError(w, err)
		return
	}
	if h.rdb != nil {
		_ = h.rdb.Del(r.Context(), key).Err()
	}

	token, err := SignToken(claims, h.jwtSecret)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	expiresIn := int64(time.Until(claims.ExpiresAt.Time).Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  claims.ExpiresAt.Time,
	})

	httpx.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
	})
}

// Logout blacklists the token's jti until the token would have expired.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	if h.rdb != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			key := tokenBlacklistPrefix + claims.ID
			if err := h.rdb.Set(r.Context(), key, "1", ttl).Err(); err != nil {
				httpx.HandleError(w, err)
				return
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	httpx.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	user, err := h.service.Profile(r.Context(), claims.UserID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := dto.ProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
