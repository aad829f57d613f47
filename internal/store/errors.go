package store

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("utilisateur introuvable")
	ErrEmailTaken      = errors.New("un compte avec cet email existe déjà")
	ErrProductNotFound = errors.New("produit introuvable")
	ErrCartNotFound    = errors.New("panier introuvable")
	ErrOrderNotFound   = errors.New("commande introuvable")

	// ErrCartConflict : une écriture concurrente a gagné la course sur le
	// même panier (garde optimiste de version). Le client doit réessayer.
	ErrCartConflict = errors.New("conflit d'écriture sur le panier")

	// ErrStockContention : le CAS sur le stock a perdu trop de courses
	// consécutives. Transitoire, l'appelant peut réessayer.
	ErrStockContention = errors.New("contention sur le stock du produit")
)

// InsufficientStockError — le stock disponible ne couvre pas la quantité
// demandée. Porte assez de détail pour que le client puisse réagir.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour le produit %s: demandé %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}
