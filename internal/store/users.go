package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// UserStore — annuaire utilisateurs. Double table users / users_by_email
// pour la connexion par email (pattern de lookup inversé).
type UserStore struct {
	session *gocql.Session
}

func NewUserStore(session *gocql.Session) *UserStore {
	return &UserStore{session: session}
}

// Insert crée l'utilisateur. L'unicité de l'email est garantie par un
// IF NOT EXISTS sur users_by_email : le perdant reçoit ErrEmailTaken.
func (s *UserStore) Insert(ctx context.Context, user models.User) error {
	applied, err := s.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		user.Email, user.ID).WithContext(ctx).ScanCAS()
	if err != nil {
		return fmt.Errorf("réservation email %s: %w", user.Email, err)
	}
	if !applied {
		return ErrEmailTaken
	}

	if err := s.session.Query(`INSERT INTO users (user_id, email, password, name, phone, role, address_street, address_city, address_state, address_zipcode, address_country, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Password, user.Name, user.Phone, user.Role,
		user.Address.Street, user.Address.City, user.Address.State, user.Address.Zipcode,
		user.Address.Country, user.CreatedAt, user.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("création utilisateur %s: %w", user.ID, err)
	}
	return nil
}

// GetByEmail retrouve un utilisateur via l'index users_by_email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var userID string
	err := s.session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("recherche email %s: %w", email, err)
	}
	return s.GetByID(ctx, userID)
}

// GetByID retourne l'utilisateur complet
func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	user := models.User{ID: userID}
	err := s.session.Query(`SELECT email, password, name, phone, role, address_street, address_city, address_state, address_zipcode, address_country, created_at, updated_at FROM users WHERE user_id = ?`, userID).
		WithContext(ctx).Scan(&user.Email, &user.Password, &user.Name, &user.Phone, &user.Role,
		&user.Address.Street, &user.Address.City, &user.Address.State, &user.Address.Zipcode,
		&user.Address.Country, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("lecture utilisateur %s: %w", userID, err)
	}
	return user, nil
}
