package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
	"cloudscale_back_end/internal/utils"

	"github.com/shopspring/decimal"
)

type CheckoutInput struct {
	ShippingAddressID int64 `json:"shippingAddressId" binding:"required,min=1"`
	BillingAddressID  int64 `json:"billingAddressId" binding:"required,min=1"`
}

type OrderService struct {
	store     database.Store
	catalog   *CatalogService
	addresses *AddressService
	notifier  Notifier
}

func NewOrderService(store database.Store, catalog *CatalogService, addresses *AddressService, notifier Notifier) *OrderService {
	return &OrderService{store: store, catalog: catalog, addresses: addresses, notifier: notifier}
}

func (s *OrderService) List(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.store.ListOrders(ctx, userID)
}

func (s *OrderService) owned(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && o.UserID != userID) {
		return nil, fmt.Errorf("%w: commande %d", ErrNotFound, orderID)
	}
	return o, err
}

func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error) {
	o, err := s.owned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{Order: *o, Items: items}, nil
}

type checkoutLine struct {
	product  *models.Product
	quantity int
}

// Checkout transforme le panier en commande.
// Les étapes ne sont pas transactionnelles: une erreur après la création
// de la commande laisse une commande partielle et le panier intact.
func (s *OrderService) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*models.Order, error) {
	items, err := s.store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	for _, id := range []int64{in.ShippingAddressID, in.BillingAddressID} {
		if _, err := s.addresses.Owned(ctx, userID, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: adresse %d inconnue", ErrValidation, id)
			}
			return nil, err
		}
	}

	total := decimal.Zero
	lines := make([]checkoutLine, 0, len(items))
	for _, item := range items {
		p, err := s.catalog.Get(ctx, item.ProductID)
		if errors.Is(err, ErrNotFound) {
			// produit retiré du catalogue depuis l'ajout au panier
			continue
		}
		if err != nil {
			return nil, err
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, checkoutLine{product: p, quantity: item.Quantity})
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID:            userID,
		Status:            models.OrderPending,
		TotalAmount:       total.Round(2),
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  in.BillingAddressID,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("création commande: %w", err)
	}

	mailLines := make([]utils.OrderMailLine, 0, len(lines))
	for _, l := range lines {
		err := s.store.CreateOrderItem(ctx, &models.OrderItem{
			OrderID:     order.ID,
			ProductID:   l.product.ID,
			Quantity:    l.quantity,
			PriceAtTime: l.product.Price,
		})
		if err != nil {
			return nil, fmt.Errorf("ligne de commande %d: %w", order.ID, err)
		}
		if err := s.catalog.ReduceStock(ctx, l.product.ID, l.quantity); err != nil {
			log.Printf("⚠️ Mise à jour du stock produit %d: %v", l.product.ID, err)
		}
		mailLines = append(mailLines, utils.OrderMailLine{
			Name:      l.product.Name,
			Quantity:  l.quantity,
			UnitPrice: l.product.Price,
		})
	}

	if err := s.store.ClearCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("vidage panier: %w", err)
	}

	log.Printf("🛒 Commande %d créée pour l'utilisateur %d (%s)", order.ID, userID, order.TotalAmount.StringFixed(2))
	s.notify(ctx, userID, "confirmation commande", func(ctx context.Context, user models.User) error {
		return s.notifier.SendOrderConfirmation(ctx, user, *order, mailLines)
	})
	return order, nil
}

// Cancel n'accepte que les commandes en attente
func (s *OrderService) Cancel(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	o, err := s.owned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderPending {
		return nil, fmt.Errorf("%w: commande %d au statut %s", ErrConflict, orderID, o.Status)
	}

	cancelled, err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderCancelled)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, userID, "statut commande", func(ctx context.Context, user models.User) error {
		return s.notifier.SendOrderStatus(ctx, user, *cancelled)
	})
	return cancelled, nil
}

func (s *OrderService) notify(ctx context.Context, userID int64, what string, send func(context.Context, models.User) error) {
	if s.notifier == nil {
		return
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		log.Printf("⚠️ E-mail %s: utilisateur %d introuvable: %v", what, userID, err)
		return
	}
	recipient := *user
	notifyAsync(what, func(ctx context.Context) error {
		return send(ctx, recipient)
	})
}
