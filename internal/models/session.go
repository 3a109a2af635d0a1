package models

import "time"

type Session struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       *int64    `json:"userId,omitempty" gorm:"index"`
	SessionID    string    `json:"sessionId" gorm:"uniqueIndex;not null"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
	LastActivity time.Time `json:"lastActivity" gorm:"index;not null"`
}
