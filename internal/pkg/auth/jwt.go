// Package auth provides functionality for generating and parsing JSON Web
// Tokens (JWT) for user authentication, and middleware enforcing them on
// protected routes. Tokens carry the user's identifier and role.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// secretKey is the key used to sign the JWT. It should be kept secure.
var secretKey = []byte("supersecretkey")

// TOKENEXP defines the token expiration duration.
const TOKENEXP = time.Hour * 3

// Claims represents the custom JWT claims: the user ID and role alongside
// the standard registered claims.
type Claims struct {
	UserID string
	Role   string
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for the given user and role.
// It sets the expiration time based on TOKENEXP.
func GenerateToken(userID, role string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TOKENEXP)),
		},
		UserID: userID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken validates the provided JWT token string and parses its claims.
// It returns the Claims if the token is valid, or an error otherwise.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
