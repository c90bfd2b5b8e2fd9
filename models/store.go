package models

import (
	"time"
)

// Store belongs to exactly one channel
type Store struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ChannelID uint      `gorm:"not null;index" json:"channel_id"` // foreign key to channels table
	Channel   *Channel  `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Store model
func (Store) TableName() string {
	return "stores"
}
