package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vitrine_back_end/internal/models"
)

// GenerateJWT signe un token HS256 portant l'identité de l'utilisateur
func GenerateJWT(user models.User, secret []byte, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
