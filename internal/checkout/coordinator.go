package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"golang.org/x/sync/errgroup"

	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/store"
)

// CartStore — lecture et suppression du panier d'un utilisateur
type CartStore interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Delete(ctx context.Context, userID string) error
}

// Catalog — lecture produit et primitives atomiques de stock.
// DecrementStock doit garantir que la vérification et la soustraction
// forment une seule étape indivisible.
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error
	IncrementStock(ctx context.Context, productID string, qty int) error
}

// Ledger — registre de commandes en ajout seul
type Ledger interface {
	Append(ctx context.Context, order models.Order) error
}

// Markers — marqueurs de succès pour la détection des retries.
// Un marqueur associe une clé d'idempotence à l'identifiant de la
// commande déjà créée pour cette clé.
type Markers interface {
	Get(ctx context.Context, key string) (orderID string, ok bool, err error)
	Set(ctx context.Context, key, orderID string) error
	Del(ctx context.Context, key string) error
}

// Coordinator orchestre la transition panier → commande : relecture du
// panier, validation du stock, réservation atomique, écriture de la
// commande et suppression du panier — visibles tout ou rien.
type Coordinator struct {
	carts   CartStore
	catalog Catalog
	ledger  Ledger
	markers Markers
	locks   *UserLocks

	maxConcurrent int
}

func NewCoordinator(carts CartStore, catalog Catalog, ledger Ledger, markers Markers, locks *UserLocks) *Coordinator {
	if locks == nil {
		locks = NewUserLocks()
	}
	return &Coordinator{
		carts:         carts,
		catalog:       catalog,
		ledger:        ledger,
		markers:       markers,
		locks:         locks,
		maxConcurrent: 10,
	}
}

// Locks expose le verrouillage par utilisateur pour que les handlers de
// panier partagent la même exclusion mutuelle que le checkout.
func (c *Coordinator) Locks() *UserLocks {
	return c.locks
}

// PlaceOrder convertit le panier de l'utilisateur en commande durable.
//
// idemKey est la clé d'idempotence fournie par le client (header
// Idempotency-Key), "" si absente. Une seconde clé est dérivée de
// l'état du panier au moment de la lecture : un retry sur un panier
// déjà converti retourne la commande d'origine au lieu d'en créer une
// deuxième ou de re-décrémenter le stock.
func (c *Coordinator) PlaceOrder(ctx context.Context, userID string, shipping models.Address, paymentMethod string, idemKey string) (string, error) {
	unlock := c.locks.Lock(userID)
	defer unlock()

	// 0. Retry avec clé client : le panier a pu être déjà supprimé
	if idemKey != "" {
		if orderID, ok := c.priorSuccess(ctx, clientMarkerKey(userID, idemKey)); ok {
			c.finishRetry(ctx, userID, "")
			return orderID, nil
		}
	}

	// 1. Charger le panier
	cart, err := c.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return "", ErrEmptyCart
		}
		return "", &StorageUnavailableError{Op: "lecture panier", Err: err}
	}
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	// Clé liée à l'état du panier au moment de la lecture : si un
	// checkout précédent a écrit la commande mais échoué à supprimer le
	// panier, le retry retombe ici sur la même clé.
	stateKey := cartStateKey(userID, cart)
	if orderID, ok := c.priorSuccess(ctx, stateKey); ok {
		c.finishRetry(ctx, userID, stateKey)
		return orderID, nil
	}

	// 2. Revalider chaque ligne contre le catalogue. Obligatoire même si
	// l'ajout au panier a déjà validé : le stock a pu changer depuis.
	if err := c.validateLines(ctx, cart.Items); err != nil {
		return "", err
	}

	// 3. Réserver le stock — tout ou rien sur l'ensemble du panier
	if err := c.reserveStock(ctx, userID, cart.Items); err != nil {
		return "", err
	}

	// Au-delà de ce point le stock est réservé : une annulation du
	// contexte appelant ne doit jamais laisser un décrément orphelin.
	// On termine l'opération sur un contexte détaché plutôt que de
	// compenser un checkout par ailleurs valide.
	dctx := context.WithoutCancel(ctx)

	// 4. + 5. Construire et enregistrer la commande (prix snapshot du
	// panier, jamais re-tarifée au prix catalogue courant)
	order := buildOrder(userID, cart, shipping, paymentMethod)
	if err := c.ledger.Append(dctx, order); err != nil {
		log.Printf("❌ Écriture commande échouée pour user %s (panier v%d): %v — compensation du stock",
			userID, cart.Version, err)
		c.releaseStock(dctx, userID, cart.Items)
		return "", &StorageUnavailableError{Op: "écriture commande", Err: err}
	}

	orderID := order.ID.String()

	// Marqueurs de succès : un échec ici n'est pas fatal, le panier va
	// être supprimé juste après.
	if err := c.markers.Set(dctx, stateKey, orderID); err != nil {
		log.Printf("⚠️ Écriture marqueur d'idempotence échouée pour user %s: %v", userID, err)
	}
	if idemKey != "" {
		if err := c.markers.Set(dctx, clientMarkerKey(userID, idemKey), orderID); err != nil {
			log.Printf("⚠️ Écriture marqueur client échouée pour user %s: %v", userID, err)
		}
	}

	// 6. Supprimer le panier. En cas d'échec le marqueur fait converger
	// le prochain retry vers cette même commande.
	cartDeleted := true
	if err := c.carts.Delete(dctx, userID); err != nil {
		log.Printf("⚠️ Suppression panier échouée pour user %s: %v — nouvelle tentative", userID, err)
		if err := c.carts.Delete(dctx, userID); err != nil {
			cartDeleted = false
			log.Printf("❌ Panier de %s toujours présent après la commande %s: %v", userID, orderID, err)
		}
	}

	// Le marqueur d'état ne sert que tant que le panier converti peut
	// encore être relu : une fois le panier supprimé, le garder exposerait
	// un futur panier au contenu identique à une fausse détection de retry.
	if cartDeleted {
		if err := c.markers.Del(dctx, stateKey); err != nil {
			log.Printf("⚠️ Suppression marqueur d'état échouée pour user %s: %v", userID, err)
		}
	}

	log.Printf("✅ Commande %s créée pour user %s (%d lignes, total %.2f€)",
		orderID, userID, len(order.Items), order.Total)
	return orderID, nil
}

// validateLines vérifie en parallèle que chaque produit existe, est
// actif et a un stock suffisant. Pré-contrôle seulement : la garantie
// d'atomicité vient du CAS de DecrementStock, pas d'ici.
func (c *Coordinator) validateLines(ctx context.Context, items []models.CartItem) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for _, item := range items {
		g.Go(func() error {
			product, err := c.catalog.GetProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, store.ErrProductNotFound) {
					return &ProductUnavailableError{ProductID: item.ProductID}
				}
				return &StorageUnavailableError{Op: "lecture produit", Err: err}
			}
			if !product.IsActive {
				return &ProductUnavailableError{ProductID: item.ProductID}
			}
			if product.Stock < item.Quantity {
				return &store.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: product.Stock,
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// reserveStock décrémente le stock ligne par ligne. Si un décrément
// échoue, tous les décréments déjà appliqués sont compensés avant de
// retourner l'erreur : aucune réservation partielle ne survit.
func (c *Coordinator) reserveStock(ctx context.Context, userID string, items []models.CartItem) error {
	for i, item := range items {
		err := c.catalog.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			continue
		}

		// Compensation sur contexte détaché : le rollback doit aboutir
		// même si l'appelant a annulé ou si un timeout a déclenché l'échec.
		c.releaseStock(context.WithoutCancel(ctx), userID, items[:i])

		var insufficient *store.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			return insufficient
		case errors.Is(err, store.ErrProductNotFound):
			return &ProductUnavailableError{ProductID: item.ProductID}
		default:
			return &StorageUnavailableError{Op: "réservation stock", Err: err}
		}
	}
	return nil
}

// releaseStock ré-incrémente les lignes déjà réservées
func (c *Coordinator) releaseStock(ctx context.Context, userID string, reserved []models.CartItem) {
	for _, item := range reserved {
		if err := c.catalog.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			// Ne doit jamais arriver : on le loggue avec tout le contexte
			// nécessaire pour une réconciliation manuelle.
			log.Printf("❌ Compensation stock échouée — user %s, produit %s, quantité %d: %v",
				userID, item.ProductID, item.Quantity, err)
		}
	}
}

// priorSuccess consulte un marqueur de succès antérieur
func (c *Coordinator) priorSuccess(ctx context.Context, key string) (string, bool) {
	orderID, ok, err := c.markers.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️ Lecture marqueur d'idempotence échouée: %v", err)
		return "", false
	}
	return orderID, ok
}

// finishRetry re-supprime le panier si la tentative d'origine n'avait
// pas réussi à le faire (Delete est idempotent), puis retire le marqueur
// d'état devenu inutile. Le marqueur reste en place tant que le panier
// n'a pas pu être supprimé.
func (c *Coordinator) finishRetry(ctx context.Context, userID, stateKey string) {
	dctx := context.WithoutCancel(ctx)
	if err := c.carts.Delete(dctx, userID); err != nil {
		log.Printf("⚠️ Nettoyage panier sur retry échoué pour user %s: %v", userID, err)
		return
	}
	if stateKey != "" {
		if err := c.markers.Del(dctx, stateKey); err != nil {
			log.Printf("⚠️ Suppression marqueur d'état échouée pour user %s: %v", userID, err)
		}
	}
}

func buildOrder(userID string, cart models.Cart, shipping models.Address, paymentMethod string) models.Order {
	items := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		total += it.Price * float64(it.Quantity)
	}

	return models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          userID,
		Items:           items,
		Total:           total,
		ShippingAddress: shipping,
		PaymentMethod:   paymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}
}

func clientMarkerKey(userID, idemKey string) string {
	return "checkout:idem:" + userID + ":" + idemKey
}

// cartStateKey dérive une clé d'idempotence de l'état exact du panier
// au moment de la lecture : version, horodatage de dernière écriture et
// empreinte des lignes. L'horodatage distingue un panier reconstruit à
// l'identique (nouvel achat légitime) du même panier relu lors d'un
// retry : version et lignes seules seraient identiques dans les deux cas.
func cartStateKey(userID string, cart models.Cart) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", userID, cart.Version, cart.UpdatedAt.UnixNano())
	for _, it := range cart.Items {
		fmt.Fprintf(h, "|%s:%d:%.2f", it.ProductID, it.Quantity, it.Price)
	}
	return "checkout:state:" + hex.EncodeToString(h.Sum(nil)[:16])
}
