package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/osteria-vecchia/reservations-api/internal/config"
)

// Admin identity lives in an external system; this package only validates the
// HMAC tokens that system mints and gates the admin route group with them.

const TokenDuration = 24 * time.Hour

type Handler struct {
	cfg *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// GenerateAdminToken mints a token the way the external admin system does.
// Used by tests and local tooling.
func (h *Handler) GenerateAdminToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"exp":  time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
