package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

var _ ports.TokenProvider = (*JWTProvider)(nil)

// SessionClaims étend les claims standards JWT.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTProvider signe le jeton attaché à la session persistée. HS256 avec
// un secret local : le jeton est produit et vérifié par le même process,
// une paire de clés RSA n'apporterait rien ici.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "orbite",
	}
}

func (j *JWTProvider) Generate(user *domain.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   user.ID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return token, nil
}

// Validate vérifie signature et expiration, et retourne le Subject.
func (j *JWTProvider) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Refuser tout alg inattendu ("none", RS256 forgé, etc.)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil {
		return "", fmt.Errorf("jwt: parse: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", errors.New("jwt: invalid claims")
	}
	return claims.Subject, nil
}

func (j *JWTProvider) TTL() time.Duration {
	return j.ttl
}
