package models

import (
	"time"
)

// HistoryEntry is one line of an order's append-only history ledger
type HistoryEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Order       *Order    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the HistoryEntry model
func (HistoryEntry) TableName() string {
	return "order_history"
}
