package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

const DefaultTokenTTL = 10 * 24 * time.Hour

type SessionClaims struct {
	UserID         string `json:"userId"`
	SessionVersion int    `json:"sessionVersion"`
	jwt.RegisteredClaims
}

// JWTProvider signs HS256 session tokens with a shared secret.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTProvider(secret string, ttl time.Duration) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTProvider{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "cenackle-social",
		now:    time.Now,
	}, nil
}

func (j *JWTProvider) TTL() time.Duration {
	return j.ttl
}

func (j *JWTProvider) Generate(claims ports.TokenClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID:         claims.UserID,
		SessionVersion: claims.SessionVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   claims.UserID,
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTProvider) Validate(tokenString string) (*ports.TokenClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Refuse tout autre algorithme que HMAC ("none", RS256 avec la clé en public...)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}

	return &ports.TokenClaims{UserID: claims.UserID, SessionVersion: claims.SessionVersion}, nil
}
