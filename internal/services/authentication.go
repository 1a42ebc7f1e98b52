package services

import (
	"ecopoints/internal/models"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthClaims struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Authentication issues and verifies the HS256 session tokens.
type Authentication struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthentication(secret string, ttl time.Duration) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("empty jwt secret")
	}
	if ttl <= 0 {
		ttl = TOKEN_TTL
	}
	return &Authentication{[]byte(secret), ttl}, nil
}

func (authentication *Authentication) CreateToken(account *models.Account, student *models.Student) (string, *AuthClaims, error) {
	now := time.Now()
	claims := &AuthClaims{
		StudentID: student.StudentID,
		Email:     account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authentication.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(authentication.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (authentication *Authentication) Validate(token string) (*AuthClaims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return authentication.secret, nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &AuthClaims{}, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*AuthClaims)
	if !ok || claims.ID == "" || claims.StudentID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
