package database

import (
	"context"
	"fmt"
	"log"

	"cloudscale_back_end/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DemoEmail    = "demo@cloudscale.com"
	DemoPassword = "password123"

	defaultStockCount = 100
)

type seedProduct struct {
	name, description, price, category, image string
}

var catalogue = []seedProduct{
	{"Premium Smartphone", "Latest flagship with AI camera", "899.00", "electronics", "photo-1511707171634-5f897ff02aa9"},
	{"Wireless Headphones", "Premium noise-cancelling", "299.00", "electronics", "photo-1505740420928-5e560c06d30e"},
	{"Gaming Laptop", "High-performance gaming", "1299.00", "gadgets", "photo-1496181133206-80ce9b88a853"},
	{"Smartwatch Pro", "Health & fitness tracking", "399.00", "gadgets", "photo-1523275335684-37898b6baf30"},
	{"Professional Camera", "DSLR with 50MP sensor", "1899.00", "electronics", "photo-1606983340126-99ab4feaa64a"},
	{"Digital Tablet Pro", "Creative design tablet", "699.00", "gadgets", "photo-1561154464-82e9adf32764"},
	{"Designer Jacket", "Premium leather material", "249.00", "fashion", "photo-1551028719-00167b16eac5"},
	{"Premium Sneakers", "Limited edition design", "189.00", "fashion", "photo-1549298916-b41d501d3772"},
	{"Smart Speaker", "Voice-controlled assistant", "129.00", "electronics", "photo-1589003077984-894e133dabab"},
	{"VR Headset", "Immersive virtual reality", "499.00", "gadgets", "photo-1592478411213-6153e4ebc696"},
	{"Luxury Watch", "Swiss craftsmanship", "799.00", "fashion", "photo-1524592094714-0f0654e20314"},
	{"Wireless Charger", "Fast charging technology", "59.00", "electronics", "photo-1515041219749-89347f83291a"},
}

func imageURL(id string) string {
	return "https://images.unsplash.com/" + id + "?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=300"
}

// Seed charge le catalogue et le compte de démonstration. Ne fait rien si des produits existent déjà.
// hash reçoit le mot de passe en clair et renvoie son empreinte.
func Seed(ctx context.Context, store Store, hash func(string) (string, error)) error {
	existing, err := store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("lecture catalogue: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("🌱 Catalogue déjà présent (%d produits), seed ignoré", len(existing))
		return nil
	}

	for _, sp := range catalogue {
		p := &models.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
			Category:    sp.category,
			ImageURL:    imageURL(sp.image),
			InStock:     true,
			StockCount:  defaultStockCount,
		}
		if err := store.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed produit %q: %w", sp.name, err)
		}
	}

	hashed, err := hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash mot de passe démo: %w", err)
	}
	demo := &models.User{
		Username:  "demo",
		Email:     DemoEmail,
		Password:  hashed,
		FirstName: "Demo",
		LastName:  "User",
		Phone:     "+1234567890",
	}
	if err := store.CreateUser(ctx, demo); err != nil {
		return fmt.Errorf("seed utilisateur démo: %w", err)
	}

	log.Printf("🌱 Seed terminé: %d produits, utilisateur %s", len(catalogue), DemoEmail)
	return nil
}
