package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/checkout"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/store"
)

// fakeCheckout enregistre l'appel reçu et retourne ce qu'on lui a donné
type fakeCheckout struct {
	orderID string
	err     error

	gotUserID  string
	gotIdemKey string
	gotPayment string
	calls      int
}

func (f *fakeCheckout) PlaceOrder(_ context.Context, userID string, _ models.Address, paymentMethod string, idemKey string) (string, error) {
	f.calls++
	f.gotUserID = userID
	f.gotIdemKey = idemKey
	f.gotPayment = paymentMethod
	return f.orderID, f.err
}

func newOrderRouter(co CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{checkout: co}

	r := gin.New()
	r.POST("/api/orders", func(c *gin.Context) {
		// Identité posée normalement par le middleware JWT
		c.Set("user_id", "u-42")
		c.Next()
	}, h.PlaceOrder)
	return r
}

const checkoutBody = `{
	"shipping_address": {"street": "12 rue de la Paix", "city": "Paris", "zipcode": "75002", "country": "FR"},
	"payment_method": "carte"
}`

func postCheckout(r *gin.Engine, body, idemKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	fake := &fakeCheckout{orderID: "order-1"}
	r := newOrderRouter(fake)

	w := postCheckout(r, checkoutBody, "retry-123")

	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, attendu 201 (body: %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"order_id":"order-1"`) {
		t.Errorf("order_id absent de la réponse: %s", w.Body.String())
	}
	if fake.gotUserID != "u-42" {
		t.Errorf("user_id transmis = %q", fake.gotUserID)
	}
	if fake.gotIdemKey != "retry-123" {
		t.Errorf("clé d'idempotence transmise = %q, attendu retry-123", fake.gotIdemKey)
	}
	if fake.gotPayment != "carte" {
		t.Errorf("payment_method transmis = %q", fake.gotPayment)
	}
}

func TestPlaceOrderHandler_InvalidBody(t *testing.T) {
	fake := &fakeCheckout{orderID: "order-1"}
	r := newOrderRouter(fake)

	tests := []struct {
		name string
		body string
	}{
		{"json illisible", `{pas du json`},
		{"adresse manquante", `{"payment_method": "carte"}`},
		{"paiement manquant", `{"shipping_address": {"street": "a", "city": "b", "zipcode": "c", "country": "d"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCheckout(r, tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("code = %d, attendu 400", w.Code)
			}
		})
	}
	if fake.calls != 0 {
		t.Errorf("le coordinateur ne doit pas être appelé sur requête invalide (appels: %d)", fake.calls)
	}
}

func TestPlaceOrderHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		fragment string
	}{
		{"panier vide", checkout.ErrEmptyCart, http.StatusBadRequest, "Panier vide"},
		{"produit indisponible", &checkout.ProductUnavailableError{ProductID: "p1"},
			http.StatusBadRequest, `"product_id":"p1"`},
		{"stock insuffisant", &store.InsufficientStockError{ProductID: "p1", Requested: 10, Available: 5},
			http.StatusBadRequest, `"requested":10`},
		{"conflit panier", store.ErrCartConflict, http.StatusConflict, "réessayez"},
		{"stockage indisponible", &checkout.StorageUnavailableError{Op: "écriture commande", Err: context.DeadlineExceeded},
			http.StatusServiceUnavailable, "indisponible"},
		{"erreur inconnue", context.DeadlineExceeded, http.StatusInternalServerError, "Erreur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newOrderRouter(&fakeCheckout{err: tt.err})
			w := postCheckout(r, checkoutBody, "")

			if w.Code != tt.want {
				t.Errorf("code = %d, attendu %d (body: %s)", w.Code, tt.want, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.fragment) {
				t.Errorf("réponse sans %q: %s", tt.fragment, w.Body.String())
			}
		})
	}
}

func TestPlaceOrderHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{checkout: &fakeCheckout{}}
	r := gin.New()
	r.POST("/api/orders", h.PlaceOrder) // pas d'identité dans le contexte

	w := postCheckout(r, checkoutBody, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, attendu 401", w.Code)
	}
}
