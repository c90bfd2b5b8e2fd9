package models

import (
	"time"
)

// Channel groups stores (e.g. marketplace, physical, e-commerce)
type Channel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Stores      []Store   `gorm:"foreignKey:ChannelID" json:"stores,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Channel model
func (Channel) TableName() string {
	return "channels"
}
