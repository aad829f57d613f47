package models

import "testing"

func TestCartAddItemMergesQuantities(t *testing.T) {
	cart := &Cart{UserID: "alice"}

	cart.AddItem(CartItem{ProductID: "p1", Name: "Clavier", Price: 49.90, Quantity: 1})
	cart.AddItem(CartItem{ProductID: "p2", Name: "Souris", Price: 19.90, Quantity: 2})
	// Même produit : la ligne existante est incrémentée, pas dupliquée
	cart.AddItem(CartItem{ProductID: "p1", Name: "Clavier", Price: 49.90, Quantity: 3})

	if len(cart.Items) != 2 {
		t.Fatalf("lignes = %d, attendu 2", len(cart.Items))
	}
	if cart.Items[0].Quantity != 4 {
		t.Errorf("quantité p1 = %d, attendu 4", cart.Items[0].Quantity)
	}
	want := 49.90*4 + 19.90*2
	if cart.Total != want {
		t.Errorf("total = %.2f, attendu %.2f", cart.Total, want)
	}
}

func TestCartRemoveItem(t *testing.T) {
	cart := &Cart{UserID: "alice"}
	cart.AddItem(CartItem{ProductID: "p1", Price: 10, Quantity: 2})
	cart.AddItem(CartItem{ProductID: "p2", Price: 5, Quantity: 1})

	cart.RemoveItem("p1")

	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("lignes inattendues: %+v", cart.Items)
	}
	if cart.Total != 5 {
		t.Errorf("total = %.2f, attendu 5.00", cart.Total)
	}

	// Suppression d'un produit absent : no-op
	cart.RemoveItem("p999")
	if len(cart.Items) != 1 {
		t.Errorf("lignes = %d, attendu 1", len(cart.Items))
	}
}

func TestCartIsEmpty(t *testing.T) {
	var nilCart *Cart
	if !nilCart.IsEmpty() {
		t.Error("un panier nil est vide")
	}

	cart := &Cart{UserID: "alice"}
	if !cart.IsEmpty() {
		t.Error("un panier sans ligne est vide")
	}

	cart.AddItem(CartItem{ProductID: "p1", Price: 1, Quantity: 1})
	if cart.IsEmpty() {
		t.Error("un panier avec une ligne n'est pas vide")
	}
}
