package models

import (
	"time"
)

// Priority is the urgency of an order
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the lifecycle state of an order
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinalized  Status = "FINALIZED"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusFinalized:
		return true
	}
	return false
}

// IsTerminal reports whether no further status or priority change is allowed
func (s Status) IsTerminal() bool {
	return s == StatusFinalized
}

// Order represents a support order (pedido) raised for a customer at a store
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderNumber   string         `gorm:"size:64;uniqueIndex;not null" json:"order_number"` // business key, never updated
	TicketNumber  *string        `gorm:"size:64" json:"ticket_number"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Resolution    *string        `gorm:"type:text" json:"resolution"`
	ExternalCode  *string        `gorm:"size:64" json:"external_code"`
	Priority      Priority       `gorm:"size:16;not null" json:"priority"`
	Status        Status         `gorm:"size:16;not null;default:'OPEN';index" json:"status"`
	AttachmentKey *string        `json:"attachment_key,omitempty"`           // nullable, storage key of the uploaded attachment
	AttachmentURL *string        `gorm:"-" json:"attachment_url,omitempty"` // computed field, resolved from AttachmentKey
	CustomerID    uint           `gorm:"not null;index" json:"customer_id"`
	Customer      *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	StoreID       uint           `gorm:"not null;index" json:"store_id"`
	Store         *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	CreatedByID   *uint          `gorm:"index" json:"created_by_id"`
	CreatedBy     *User          `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
	History       []HistoryEntry `gorm:"foreignKey:OrderID" json:"history,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	LastUpdatedAt time.Time      `gorm:"not null;index" json:"last_updated_at"` // stamped explicitly, escalation leaves it alone
	FinalizedAt   *time.Time     `json:"finalized_at"`                         // nullable, set on finalization
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
