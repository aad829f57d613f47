package store

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// CategoryStore — catégories du catalogue, lecture seule côté API
type CategoryStore struct {
	session *gocql.Session
}

func NewCategoryStore(session *gocql.Session) *CategoryStore {
	return &CategoryStore{session: session}
}

// ListActive retourne les catégories actives
func (s *CategoryStore) ListActive(ctx context.Context) ([]models.Category, error) {
	iter := s.session.Query(`SELECT category_id, name, slug, is_active FROM categories`).
		WithContext(ctx).Iter()

	var categories []models.Category
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.IsActive) {
		if cat.IsActive {
			categories = append(categories, cat)
		}
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture catégories: %w", err)
	}
	return categories, nil
}
