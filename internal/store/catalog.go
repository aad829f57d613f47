package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// Nombre maximum de tentatives CAS avant d'abandonner sur contention
const casMaxRetries = 8

// CatalogStore — accès aux produits dans ScyllaDB. Toute mutation de
// stock passe par DecrementStock / IncrementStock : jamais de
// lecture-puis-écriture séparées.
type CatalogStore struct {
	session *gocql.Session
}

func NewCatalogStore(session *gocql.Session) *CatalogStore {
	return &CatalogStore{session: session}
}

const productColumns = `product_id, name, description, price, stock, category, image_urls, tags, specifications, is_active, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&p.ImageURLs, &p.Tags, &p.Specifications, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProduct récupère un produit par son identifiant
func (s *CatalogStore) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}

	q := s.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).WithContext(ctx)
	p, err := scanProduct(q.Scan)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("lecture produit %s: %w", productID, err)
	}
	return p, nil
}

// List retourne tous les produits actifs
func (s *CatalogStore) List(ctx context.Context) ([]models.Product, error) {
	iter := s.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&p.ImageURLs, &p.Tags, &p.Specifications, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	return products, nil
}

// Insert crée un produit et son entrée d'index par catégorie.
// L'index ne porte que des identifiants : les données produit sont
// toujours relues dans products, elles ne peuvent pas devenir obsolètes.
func (s *CatalogStore) Insert(ctx context.Context, p models.Product) error {
	if err := s.session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURLs, p.Tags,
		p.Specifications, p.IsActive, p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("création produit: %w", err)
	}

	if err := s.session.Query(`INSERT INTO products_by_category (category, product_id) VALUES (?, ?)`,
		p.Category, p.ID).WithContext(ctx).Exec(); err != nil {
		// Log l'erreur mais ne bloque pas la création
		log.Printf("⚠️ Erreur indexation products_by_category: %v", err)
	}
	return nil
}

// ListByCategory retourne les produits actifs d'une catégorie : lecture
// des identifiants dans l'index puis des produits dans la table source.
func (s *CatalogStore) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	iter := s.session.Query(`SELECT product_id FROM products_by_category WHERE category = ?`, category).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture index catégorie %s: %w", category, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	iter = s.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id IN ?`, ids).
		WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
		&p.ImageURLs, &p.Tags, &p.Specifications, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture produits de la catégorie %s: %w", category, err)
	}
	return products, nil
}

// Update met à jour les champs descriptifs d'un produit.
// Le stock n'est PAS modifiable par cette méthode. prevCategory est la
// catégorie avant mise à jour : si elle change, l'entrée d'index est
// déplacée.
func (s *CatalogStore) Update(ctx context.Context, p models.Product, prevCategory string) error {
	applied, err := s.session.Query(`UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_urls = ?, tags = ?, specifications = ?, is_active = ?, updated_at = ? WHERE product_id = ? IF EXISTS`,
		p.Name, p.Description, p.Price, p.Category, p.ImageURLs, p.Tags, p.Specifications,
		p.IsActive, time.Now(), p.ID).WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("mise à jour produit %s: %w", p.ID, err)
	}
	if !applied {
		return ErrProductNotFound
	}

	if p.Category != prevCategory {
		if err := s.session.Query(`DELETE FROM products_by_category WHERE category = ? AND product_id = ?`,
			prevCategory, p.ID).WithContext(ctx).Exec(); err != nil {
			log.Printf("⚠️ Erreur retrait index products_by_category (%s): %v", prevCategory, err)
		}
		if err := s.session.Query(`INSERT INTO products_by_category (category, product_id) VALUES (?, ?)`,
			p.Category, p.ID).WithContext(ctx).Exec(); err != nil {
			log.Printf("⚠️ Erreur indexation products_by_category (%s): %v", p.Category, err)
		}
	}
	return nil
}

// AddImageURL ajoute une URL d'image au produit
func (s *CatalogStore) AddImageURL(ctx context.Context, productID string, url string) error {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return ErrProductNotFound
	}
	applied, err := s.session.Query(`UPDATE products SET image_urls = image_urls + ?, updated_at = ? WHERE product_id = ? IF EXISTS`,
		[]string{url}, time.Now(), id).WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("ajout image produit %s: %w", productID, err)
	}
	if !applied {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock décrémente le stock de façon atomique via une
// transaction légère ScyllaDB : la vérification "stock >= quantité" et
// la soustraction forment une seule étape indivisible. Deux checkouts
// concurrents ne peuvent jamais consommer le même stock deux fois.
func (s *CatalogStore) DecrementStock(ctx context.Context, productID string, qty int) error {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return ErrProductNotFound
	}

	var stock int
	if err := s.session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("lecture stock produit %s: %w", productID, err)
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		if stock < qty {
			return &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
		}

		applied, err := s.session.Query(`UPDATE products SET stock = ? WHERE product_id = ? IF stock = ?`,
			stock-qty, id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return fmt.Errorf("décrément stock produit %s: %w", productID, err)
		}
		if applied {
			return nil
		}
		// Un checkout concurrent a modifié le stock entre la lecture et le
		// CAS : `stock` contient maintenant la valeur relue, on réessaie.
	}

	log.Printf("⚠️ Contention CAS persistante sur le produit %s", productID)
	return ErrStockContention
}

// IncrementStock ré-incrémente le stock (compensation d'un checkout
// échoué, ou réassort admin). Même discipline CAS que le décrément pour
// ne jamais perdre de mise à jour concurrente.
func (s *CatalogStore) IncrementStock(ctx context.Context, productID string, qty int) error {
	id, err := gocql.ParseUUID(productID)
	if err != nil {
		return ErrProductNotFound
	}

	var stock int
	if err := s.session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("lecture stock produit %s: %w", productID, err)
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		applied, err := s.session.Query(`UPDATE products SET stock = ? WHERE product_id = ? IF stock = ?`,
			stock+qty, id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return fmt.Errorf("incrément stock produit %s: %w", productID, err)
		}
		if applied {
			return nil
		}
	}

	log.Printf("⚠️ Contention CAS persistante sur le produit %s", productID)
	return ErrStockContention
}
