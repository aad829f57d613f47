package checkout

import (
	"errors"
	"fmt"
)

// ErrEmptyCart — panier absent ou sans aucune ligne : les deux cas sont
// traités à l'identique.
var ErrEmptyCart = errors.New("le panier est vide")

// ProductUnavailableError — le produit d'une ligne du panier n'existe
// plus ou a été désactivé depuis l'ajout au panier.
type ProductUnavailableError struct {
	ProductID string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("produit indisponible: %s", e.ProductID)
}

// StorageUnavailableError — échec transitoire du stockage. L'appelant
// peut réessayer : le protocole d'idempotence garantit qu'un retry ne
// double ni la commande ni le décrément de stock.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("stockage indisponible (%s): %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}
