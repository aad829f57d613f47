package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("secret-de-test")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("signature du token: %v", err)
	}
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter()

	validToken := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u-42",
		"email":   "alice@example.com",
		"role":    "customer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expiredToken := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u-42",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecretToken := signToken(t, []byte("autre-secret"), jwt.MapClaims{
		"user_id": "u-42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noUserToken := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"token valide", "Bearer " + validToken, http.StatusOK},
		{"header absent", "", http.StatusUnauthorized},
		{"format invalide", "Token " + validToken, http.StatusUnauthorized},
		{"mauvais secret", "Bearer " + wrongSecretToken, http.StatusUnauthorized},
		{"token expiré", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"user_id manquant", "Bearer " + noUserToken, http.StatusUnauthorized},
		{"token illisible", "Bearer pas.un.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("code = %d, attendu %d (body: %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAuthRequiredSetsIdentity(t *testing.T) {
	r := newAuthRouter()

	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u-42",
		"email":   "alice@example.com",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, attendu 200", w.Code)
	}
	body := w.Body.String()
	if body != `{"role":"admin","user_id":"u-42"}` {
		t.Errorf("identité inattendue dans le contexte: %s", body)
	}
}
