package token

import (
	"fmt"
	"time"

	"lexio/config"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

func secret() []byte {
	return []byte(config.Cfg.Auth.JWTSecret)
}

// Sign creates a signed access token for the given user.
func Sign(userID, role string) (string, error) {
	ttl := time.Duration(config.Cfg.Auth.TokenTTLMins) * time.Minute
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return t.SignedString(secret())
}

// Parse validates a token string and returns its claims.
func Parse(tokenStr string) (*Claims, error) {
	t, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
