package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vitrine_back_end/internal/models"
)

func TestGenerateJWT(t *testing.T) {
	secret := []byte("secret-de-test")
	user := models.User{
		ID:    "u-42",
		Email: "alice@example.com",
		Role:  models.RoleCustomer,
	}

	signed, err := GenerateJWT(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token illisible: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != "u-42" {
		t.Errorf("user_id = %v", claims["user_id"])
	}
	if claims["email"] != "alice@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
	if claims["role"] != models.RoleCustomer {
		t.Errorf("role = %v", claims["role"])
	}

	exp := int64(claims["exp"].(float64))
	if exp <= time.Now().Unix() {
		t.Error("le token expire dans le passé")
	}
}
