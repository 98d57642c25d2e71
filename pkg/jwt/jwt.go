// Package jwt emisión y validación de tokens HS256 del API.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores de Parse. Cualquier otro fallo de validación se reporta como ErrInvalidToken.
var (
	ErrNoSecret     = errors.New("jwt: secret vacío")
	ErrExpiredToken = errors.New("jwt: token expirado")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Claims registrados más el usuario y el rol que tenía al emitir el token.
// El rol sirve para el RBAC grueso; el middleware recarga al usuario en cada request.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Generate firma un token para userID con vigencia de expMinutes.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y vigencia y devuelve userID y role.
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", ErrNoSecret
	}
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", "", ErrExpiredToken
	case err != nil:
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case claims.UserID == "":
		return "", "", fmt.Errorf("%w: sin user_id", ErrInvalidToken)
	}
	return claims.UserID, claims.Role, nil
}
