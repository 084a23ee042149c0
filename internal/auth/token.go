package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers missing, malformed, badly signed and expired
// tokens. The WebSocket handshake and the REST middleware reject the
// request before any room interaction when they see it.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Identity is the authenticated subject bound to a connection for its
// entire lifetime. There is no per-event re-authentication.
type Identity struct {
	UserID uint
	Role   string
}

// Verifier checks HS256 bearer tokens issued by the platform's auth service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify validates signature and expiry and resolves the subject claims.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return Identity{}, ErrInvalidToken
	}

	role, _ := claims["role"].(string)

	return Identity{UserID: uint(userID), Role: role}, nil
}

// Sign issues a token for the given user. The production issuer lives in
// the platform's auth service; this is used by the admin CLI and tests.
func (v *Verifier) Sign(userID uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iss":     "newsdesk-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
