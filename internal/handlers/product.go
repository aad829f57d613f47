package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/store"
)

//
// 🟢 GET /api/products?page=&limit=&category=&search=
//
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	category := c.Query("category")
	search := c.Query("search")

	ctx := c.Request.Context()
	var products []models.Product
	var err error

	switch {
	case search != "" && h.search.Enabled():
		products, err = h.search.SearchProducts(ctx, search)
		if err != nil {
			log.Printf("⚠️ Recherche Elastic échouée (%q), repli sur le catalogue: %v", search, err)
			products, err = h.catalog.List(ctx)
		}
	case category != "" && search == "":
		// Navigation par catégorie : lecture via l'index
		products, err = h.catalog.ListByCategory(ctx, category)
	case category == "" && search == "":
		// ✅ Liste complète : on tente d'abord le cache Redis
		if cached, ok := h.cache.GetProductList(ctx); ok {
			products = cached
		} else {
			products, err = h.catalog.List(ctx)
			if err == nil {
				h.cache.SetProductList(ctx, products)
			}
		}
	default:
		products, err = h.catalog.List(ctx)
	}
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	products = filterProducts(products, category, search)

	total := len(products)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products[start:end],
		"total":    total,
		"page":     page,
		"pages":    pages,
	})
}

// filterProducts garde les produits actifs correspondant aux filtres.
// Le filtre texte ne sert que de repli quand Elastic est indisponible.
func filterProducts(products []models.Product, category, search string) []models.Product {
	out := make([]models.Product, 0, len(products))
	needle := strings.ToLower(search)
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

//
// 🟢 GET /api/products/:id
//
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

//
// 🔒 POST /api/products (admin)
//
func (h *Handler) CreateProduct(c *gin.Context) {
	var input struct {
		Name           string            `json:"name" binding:"required"`
		Description    string            `json:"description"`
		Price          float64           `json:"price" binding:"min=0"`
		Stock          int               `json:"stock" binding:"min=0"`
		Category       string            `json:"category" binding:"required"`
		ImageURLs      []string          `json:"image_urls"`
		Tags           []string          `json:"tags"`
		Specifications map[string]string `json:"specifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:             gocql.TimeUUID(),
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		Stock:          input.Stock,
		Category:       input.Category,
		ImageURLs:      input.ImageURLs,
		Tags:           input.Tags,
		Specifications: input.Specifications,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.catalog.Insert(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	h.cache.InvalidateProducts(c.Request.Context())

	// 🔄 Indexation Elasticsearch
	go h.search.IndexProduct(p)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Produit créé avec succès",
		"product_id": p.ID.String(),
	})
}

//
// 🔒 PUT /api/products/:id (admin)
//
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// On part du produit existant : les champs omis gardent leur valeur
	existing, err := h.catalog.GetProduct(c.Request.Context(), id.String())
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	var input struct {
		Name           *string            `json:"name"`
		Description    *string            `json:"description"`
		Price          *float64           `json:"price"`
		Category       *string            `json:"category"`
		ImageURLs      *[]string          `json:"image_urls"`
		Tags           *[]string          `json:"tags"`
		Specifications *map[string]string `json:"specifications"`
		IsActive       *bool              `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if input.Price != nil && *input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
		return
	}

	prevCategory := existing.Category

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Price != nil {
		existing.Price = *input.Price
	}
	if input.Category != nil {
		existing.Category = *input.Category
	}
	if input.ImageURLs != nil {
		existing.ImageURLs = *input.ImageURLs
	}
	if input.Tags != nil {
		existing.Tags = *input.Tags
	}
	if input.Specifications != nil {
		existing.Specifications = *input.Specifications
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := h.catalog.Update(c.Request.Context(), existing, prevCategory); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur mise à jour produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	h.cache.InvalidateProducts(c.Request.Context())
	go h.search.IndexProduct(existing)

	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour avec succès"})
}

//
// 🔒 PUT /api/products/:id/stock (admin) — réassort
//
func (h *Handler) RestockProduct(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	productID := c.Param("id")
	if err := h.catalog.IncrementStock(c.Request.Context(), productID, req.Quantity); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur réassort produit %s: %v", productID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lors de la mise à jour du stock"})
		return
	}

	h.cache.InvalidateProducts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Stock mis à jour avec succès"})
}

//
// 🔒 POST /api/products/:id/image (admin) — upload MinIO
//
func (h *Handler) UploadProductImage(c *gin.Context) {
	if !h.storage.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stockage d'images non configuré"})
		return
	}

	productID := c.Param("id")
	if _, err := h.catalog.GetProduct(c.Request.Context(), productID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	objectName := fmt.Sprintf("products/%s/%s", productID, file.Filename)
	url, err := h.storage.UploadFile(c.Request.Context(), objectName, file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO pour le produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	if err := h.catalog.AddImageURL(c.Request.Context(), productID, url); err != nil {
		log.Printf("❌ Erreur ajout URL image produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement image"})
		return
	}

	h.cache.InvalidateProducts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Image ajoutée", "url": url})
}
