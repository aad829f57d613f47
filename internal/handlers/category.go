package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// 🟢 GET /api/categories
//
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.categories.ListActive(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur lecture catégories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
