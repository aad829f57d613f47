package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/models"
)

// fakeProductCatalog compte les lectures pour vérifier quel chemin sert
// chaque requête.
type fakeProductCatalog struct {
	byCategory map[string][]models.Product
	all        []models.Product

	listCalls       int
	byCategoryCalls int
	lastCategory    string
}

func (f *fakeProductCatalog) GetProduct(_ context.Context, _ string) (models.Product, error) {
	return models.Product{}, nil
}

func (f *fakeProductCatalog) List(_ context.Context) ([]models.Product, error) {
	f.listCalls++
	return f.all, nil
}

func (f *fakeProductCatalog) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	f.byCategoryCalls++
	f.lastCategory = category
	return f.byCategory[category], nil
}

func (f *fakeProductCatalog) Insert(_ context.Context, _ models.Product) error { return nil }

func (f *fakeProductCatalog) Update(_ context.Context, _ models.Product, _ string) error {
	return nil
}

func (f *fakeProductCatalog) IncrementStock(_ context.Context, _ string, _ int) error { return nil }

func (f *fakeProductCatalog) AddImageURL(_ context.Context, _ string, _ string) error { return nil }

// Le filtre par catégorie doit passer par l'index products_by_category,
// pas par un balayage du catalogue complet, et servir le stock courant
// de la table products.
func TestGetProductsByCategoryUsesIndex(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fake := &fakeProductCatalog{
		byCategory: map[string][]models.Product{
			"claviers": {
				{Name: "Clavier mécanique", Category: "claviers", Price: 89.90, Stock: 7, IsActive: true},
			},
		},
		all: []models.Product{
			{Name: "Souris", Category: "souris", Price: 19.90, Stock: 3, IsActive: true},
		},
	}
	h := &Handler{catalog: fake}

	r := gin.New()
	r.GET("/api/products", h.GetProducts)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=claviers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, attendu 200 (body: %s)", w.Code, w.Body.String())
	}
	if fake.byCategoryCalls != 1 || fake.lastCategory != "claviers" {
		t.Errorf("ListByCategory appelé %d fois (catégorie %q), attendu 1 fois avec %q",
			fake.byCategoryCalls, fake.lastCategory, "claviers")
	}
	if fake.listCalls != 0 {
		t.Errorf("List appelé %d fois, la navigation par catégorie ne doit pas balayer le catalogue", fake.listCalls)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Clavier mécanique") {
		t.Errorf("produit de la catégorie absent de la réponse: %s", body)
	}
	if !strings.Contains(body, `"stock":7`) {
		t.Errorf("le stock servi doit venir de la table products: %s", body)
	}
	if strings.Contains(body, "Souris") {
		t.Errorf("produit d'une autre catégorie présent dans la réponse: %s", body)
	}
}
