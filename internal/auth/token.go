package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by an access token. SessionID doubles as the jti of
// the server-side session record, so a token can be revoked on logout.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewToken mints an HS256 access token bound to userID, valid for ttl.
// It returns the signed token, the session id to persist, and the expiry.
func NewToken(secret, userID string, ttl time.Duration) (token, sessionID string, expiresAt time.Time, err error) {
	sessionID = uuid.New().String()
	expiresAt = time.Now().Add(ttl)

	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return token, sessionID, expiresAt, err
}

// ParseToken validates signature and expiry and returns the claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
