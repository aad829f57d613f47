package models

import "time"

// CartItem — le prix est figé au moment de l'ajout au panier (snapshot),
// il ne suit pas le prix courant du catalogue.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// Cart — un seul panier actif par utilisateur, identifié par user_id.
// Version sert de garde optimiste : toute écriture perdante est rejetée.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddItem fusionne l'item dans le panier : si le produit est déjà présent,
// la quantité est incrémentée au lieu de dupliquer la ligne.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.RecalcTotal()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.RecalcTotal()
}

// RemoveItem supprime la ligne du produit (no-op si absente)
func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.RecalcTotal()
}

// RecalcTotal recalcule le total à partir des prix snapshot
func (c *Cart) RecalcTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
