package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

var _ ports.TokenManager = (*JWT)(nil)

// Claims — полезная нагрузка токена: id пользователя.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWT — HS256-токены. ttl <= 0 — токен без срока действия.
type JWT struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration, issuer string) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWT{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}, nil
}

func (j *JWT) Issue(userID string) (string, error) {
	now := j.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   j.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse — проверка подписи, алгоритма и срока; любая проблема — domain.ErrUnauthorized.
func (j *JWT) Parse(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: token without user id", domain.ErrUnauthorized)
	}
	return claims.UserID, nil
}
