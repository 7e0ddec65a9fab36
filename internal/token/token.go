package token

import (
	"time"

	"modqueue/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed bearer token lifetime. Token lifetime is deliberately
// decoupled from the session's sliding inactivity window.
const TTL = 10 * time.Minute

// Claims is the bearer token payload.
type Claims struct {
	UserID    uint        `json:"userId"`
	Email     string      `json:"email,omitempty"`
	Role      models.Role `json:"role"`
	SessionID string      `json:"sessionId"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given principal with a fresh TTL.
func Generate(secret, issuer string, userID uint, email string, role models.Role, sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifies the signature and expiry and returns the claims.
func Parse(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
