package models

import (
	"time"
)

// Customer represents the person an order is opened for
type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	NationalID string    `gorm:"size:11;uniqueIndex;not null" json:"national_id"` // 11 digits, normalized
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
