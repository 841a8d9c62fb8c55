package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carried by an email-verification link. The jti (RegisteredClaims.ID)
// makes the link single-use: it is consumed in Redis on first verification.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func GenerateVerifyToken(email string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: email,
	})
	return token.SignedString(secretKey)
}

// ParseVerifyToken returns the email and token ID of a valid token.
func ParseVerifyToken(tokenString string, secretKey []byte) (email, jti string, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrTokenExpired
		}
		return "", "", err
	}
	if !token.Valid || claims.Email == "" || claims.ID == "" {
		return "", "", ErrTokenInvalid
	}
	return claims.Email, claims.ID, nil
}
