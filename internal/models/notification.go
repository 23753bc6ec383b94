package models

import (
	"time"
)

// Notification audience.
const (
	AudienceAdmin = "admin"
	AudienceUser  = "user"
)

// Notification is write-once, then mutated only by read receipts.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UUID      string     `gorm:"uniqueIndex;not null" json:"uuid"`
	Audience  string     `gorm:"index;not null" json:"audience"` // admin | user
	UserID    uint       `gorm:"index" json:"user_id"`           // 0 for admin-wide rows
	Type      string     `json:"type"`                           // order_paid, ticket_reply...
	Title     string     `json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Icon      string     `json:"icon,omitempty"`
	Color     string     `json:"color,omitempty"`
	Link      string     `json:"link,omitempty"`
	Metadata  string     `gorm:"type:json" json:"metadata,omitempty"`
	Read      bool       `gorm:"default:false;index" json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
