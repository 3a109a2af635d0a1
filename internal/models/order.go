package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	UserID            int64           `json:"userId" gorm:"index;not null"`
	Status            string          `json:"status" gorm:"not null;default:pending"`
	TotalAmount       decimal.Decimal `json:"totalAmount" gorm:"type:numeric(10,2);not null"`
	ShippingAddressID int64           `json:"shippingAddressId" gorm:"not null"`
	BillingAddressID  int64           `json:"billingAddressId" gorm:"not null"`
	CreatedAt         time.Time       `json:"createdAt" gorm:"not null"`
	UpdatedAt         time.Time       `json:"updatedAt" gorm:"not null"`
}

// OrderItem est immuable une fois créé : PriceAtTime fige le prix payé
type OrderItem struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	OrderID     int64           `json:"orderId" gorm:"index;not null"`
	ProductID   int64           `json:"productId" gorm:"not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	PriceAtTime decimal.Decimal `json:"priceAtTime" gorm:"type:numeric(10,2);not null"`
}

type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}
