package models

import "time"

// CartItem est unique par (UserID, ProductID) : un nouvel ajout incrémente Quantity
type CartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"uniqueIndex:idx_cart_user_product;not null"`
	ProductID int64     `json:"productId" gorm:"uniqueIndex:idx_cart_user_product;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	AddedAt   time.Time `json:"addedAt" gorm:"not null"`
}

// CartLine est une ligne de panier enrichie avec son produit
type CartLine struct {
	CartItem
	Product *Product `json:"product"`
}
