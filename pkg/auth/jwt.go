package auth

import (
	"errors"
	"time"

	"casino-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

const ScopeSession = "session"

type Claims struct {
	SessionKey string `json:"sessionKey"`
	Scope      string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token that carries the session key.
func GenerateToken(sessionKey string) (string, time.Time, error) {
	duration := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	expireAt := time.Now().Add(duration)
	claims := Claims{
		SessionKey: sessionKey,
		Scope:      ScopeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   sessionKey,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.GlobalConfig.JWT.Secret))
	return signed, expireAt, err
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseSessionToken(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeSession || claims.SessionKey == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
