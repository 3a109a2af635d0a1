package services

import (
	"context"
	"errors"
	"fmt"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartService struct {
	cart    database.CartStore
	catalog *CatalogService
}

func NewCartService(cart database.CartStore, catalog *CatalogService) *CartService {
	return &CartService{cart: cart, catalog: catalog}
}

// Lines renvoie le panier avec le produit de chaque ligne (nil si le produit a disparu)
func (s *CartService) Lines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	items, err := s.cart.ListCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		line := models.CartLine{CartItem: item}
		p, err := s.catalog.Get(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Product = p
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Add fusionne avec la ligne existante du même produit
func (s *CartService) Add(ctx context.Context, userID int64, in AddToCartInput) (*models.CartItem, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantité invalide", ErrValidation)
	}
	if _, err := s.catalog.Get(ctx, in.ProductID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: produit %d inconnu", ErrValidation, in.ProductID)
		}
		return nil, err
	}

	return s.cart.AddToCart(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
}

// owned renvoie ErrNotFound aussi pour la ligne d'un autre utilisateur
func (s *CartService) owned(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	item, err := s.cart.GetCartItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && item.UserID != userID) {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, itemID)
	}
	return item, err
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantité invalide", ErrValidation)
	}
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return nil, err
	}
	item, err := s.cart.UpdateCartItemQuantity(ctx, itemID, quantity)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, itemID)
	}
	return item, err
}

func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	err := s.cart.RemoveCartItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: article %d", ErrNotFound, itemID)
	}
	return err
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.cart.ClearCart(ctx, userID)
}
