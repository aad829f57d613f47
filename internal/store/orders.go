package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// OrderStore — registre des commandes, en ajout seul. Une commande
// écrite n'est jamais supprimée ; seule la colonne status peut évoluer.
// Double table (orders + orders_by_user) pour la lecture par
// utilisateur triée de la plus récente à la plus ancienne.
type OrderStore struct {
	session *gocql.Session
}

func NewOrderStore(session *gocql.Session) *OrderStore {
	return &OrderStore{session: session}
}

// Append enregistre la commande dans les deux tables via un batch logged
func (s *OrderStore) Append(ctx context.Context, order models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encodage commande: %w", err)
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encodage adresse: %w", err)
	}

	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders (order_id, user_id, items, total, shipping_address, payment_method, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, string(itemsJSON), order.Total, string(addressJSON),
		order.PaymentMethod, order.Status, order.CreatedAt)
	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, items, total, shipping_address, payment_method, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, string(itemsJSON), order.Total,
		string(addressJSON), order.PaymentMethod, order.Status)

	if err := s.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("écriture commande %s: %w", order.ID, err)
	}
	return nil
}

// GetByID retourne la commande uniquement si elle appartient à
// l'utilisateur : la commande d'un autre client est introuvable.
func (s *OrderStore) GetByID(ctx context.Context, userID, orderID string) (models.Order, error) {
	id, err := gocql.ParseUUID(orderID)
	if err != nil {
		return models.Order{}, ErrOrderNotFound
	}

	var itemsJSON, addressJSON string
	order := models.Order{ID: id}
	err = s.session.Query(`SELECT user_id, items, total, shipping_address, payment_method, status, created_at FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).Scan(&order.UserID, &itemsJSON, &order.Total, &addressJSON,
		&order.PaymentMethod, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("lecture commande %s: %w", orderID, err)
	}

	// Vérifie que la commande appartient bien à l'utilisateur
	if order.UserID != userID {
		return models.Order{}, ErrOrderNotFound
	}

	if err := decodeOrderPayload(&order, itemsJSON, addressJSON); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ListByUser retourne les commandes de l'utilisateur, la plus récente
// en premier (ordre de clustering de orders_by_user).
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := s.session.Query(`SELECT order_id, created_at, items, total, shipping_address, payment_method, status FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var orders []models.Order
	var itemsJSON, addressJSON string
	order := models.Order{UserID: userID}
	for iter.Scan(&order.ID, &order.CreatedAt, &itemsJSON, &order.Total, &addressJSON,
		&order.PaymentMethod, &order.Status) {
		if err := decodeOrderPayload(&order, itemsJSON, addressJSON); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		order = models.Order{UserID: userID}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture commandes de %s: %w", userID, err)
	}
	return orders, nil
}

func decodeOrderPayload(order *models.Order, itemsJSON, addressJSON string) error {
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
			return fmt.Errorf("décodage lignes commande %s: %w", order.ID, err)
		}
	}
	if addressJSON != "" {
		if err := json.Unmarshal([]byte(addressJSON), &order.ShippingAddress); err != nil {
			return fmt.Errorf("décodage adresse commande %s: %w", order.ID, err)
		}
	}
	return nil
}
