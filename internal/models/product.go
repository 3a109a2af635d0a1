package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Category    string          `json:"category" gorm:"index;not null"`
	ImageURL    string          `json:"imageUrl" gorm:"not null"`
	InStock     bool            `json:"inStock" gorm:"not null"`
	StockCount  int             `json:"stockCount" gorm:"not null"`
}
