package models

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"

	DefaultCountry = "India"
)

type Address struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	UserID    int64  `json:"userId" gorm:"index;not null"`
	Type      string `json:"type" gorm:"not null;default:shipping"`
	Street    string `json:"street" gorm:"not null"`
	City      string `json:"city" gorm:"not null"`
	State     string `json:"state" gorm:"not null"`
	ZipCode   string `json:"zipCode" gorm:"not null"`
	Country   string `json:"country" gorm:"not null"`
	IsDefault bool   `json:"isDefault" gorm:"not null;default:false"`
}
