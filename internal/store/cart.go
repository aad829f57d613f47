package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// CartStore — un document panier par utilisateur dans ScyllaDB, gardé
// par un numéro de version : l'écrivain perdant d'une course reçoit
// ErrCartConflict au lieu d'écraser silencieusement l'autre écriture.
type CartStore struct {
	session *gocql.Session
}

func NewCartStore(session *gocql.Session) *CartStore {
	return &CartStore{session: session}
}

// Get retourne le panier de l'utilisateur, ErrCartNotFound s'il n'existe pas
func (s *CartStore) Get(ctx context.Context, userID string) (models.Cart, error) {
	var itemsJSON string
	cart := models.Cart{UserID: userID}

	err := s.session.Query(`SELECT items, total, version, updated_at FROM carts WHERE user_id = ?`, userID).
		WithContext(ctx).Scan(&itemsJSON, &cart.Total, &cart.Version, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.Cart{}, ErrCartNotFound
		}
		return models.Cart{}, fmt.Errorf("lecture panier %s: %w", userID, err)
	}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &cart.Items); err != nil {
			return models.Cart{}, fmt.Errorf("décodage panier %s: %w", userID, err)
		}
	}
	return cart, nil
}

// Upsert écrit le panier avec une garde optimiste : un panier neuf
// (version 0) est créé via IF NOT EXISTS, un panier existant n'est
// écrit que si la version stockée correspond à celle qui a été lue.
// En cas de succès la version du panier est incrémentée en place.
func (s *CartStore) Upsert(ctx context.Context, cart *models.Cart) error {
	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encodage panier %s: %w", cart.UserID, err)
	}
	now := time.Now()

	if cart.Version == 0 {
		applied, err := s.session.Query(`INSERT INTO carts (user_id, items, total, version, updated_at) VALUES (?, ?, ?, 1, ?) IF NOT EXISTS`,
			cart.UserID, string(itemsJSON), cart.Total, now).WithContext(ctx).ScanCAS()
		if err != nil {
			return fmt.Errorf("création panier %s: %w", cart.UserID, err)
		}
		if !applied {
			// Quelqu'un d'autre vient de créer le panier
			return ErrCartConflict
		}
		cart.Version = 1
		cart.UpdatedAt = now
		return nil
	}

	applied, err := s.session.Query(`UPDATE carts SET items = ?, total = ?, version = ?, updated_at = ? WHERE user_id = ? IF version = ?`,
		string(itemsJSON), cart.Total, cart.Version+1, now, cart.UserID, cart.Version).
		WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("écriture panier %s: %w", cart.UserID, err)
	}
	if !applied {
		return ErrCartConflict
	}
	cart.Version++
	cart.UpdatedAt = now
	return nil
}

// Delete supprime le panier. Idempotent : supprimer un panier absent
// n'est pas une erreur.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.session.Query(`DELETE FROM carts WHERE user_id = ?`, userID).
		WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("suppression panier %s: %w", userID, err)
	}
	return nil
}
