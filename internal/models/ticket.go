package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TicketOpen          = "open"
	TicketAnswered      = "answered"
	TicketCustomerReply = "customer-reply"
	TicketClosed        = "closed"
)

type Ticket struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         string         `gorm:"uniqueIndex;not null" json:"uuid"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	ServiceID    *uint          `gorm:"index" json:"service_id,omitempty"`
	TicketNumber string         `gorm:"uniqueIndex;not null" json:"ticket_number"`
	Department   string         `gorm:"default:'support'" json:"department"`
	Priority     string         `gorm:"default:'medium'" json:"priority"`
	Subject      string         `gorm:"not null" json:"subject"`
	Status       string         `gorm:"default:'open';index" json:"status"`
	Replies      []TicketReply  `json:"replies"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TicketReply rows are append-only.
type TicketReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"index;not null" json:"ticket_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsStaff   bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}
