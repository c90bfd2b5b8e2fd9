package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a private in-memory sqlite database with the full schema
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := config.Open(config.DriverSQLite, dsn, logger.Silent)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, config.Migrate(db), "Failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// Fixtures is a minimal reference graph an order can point at
type Fixtures struct {
	Channel  models.Channel
	Store    models.Store
	Customer models.Customer
	User     models.User
}

// SeedFixtures inserts one channel, store, customer and user
func SeedFixtures(t *testing.T, db *gorm.DB) Fixtures {
	t.Helper()

	f := Fixtures{
		Channel:  models.Channel{Name: "Marketplace"},
		Customer: models.Customer{Name: "Maria Silva", NationalID: "12345678909"},
		User:     models.User{Name: "Operator", Email: "operator@example.com", PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&f.Channel).Error)

	f.Store = models.Store{Name: "Loja Centro", ChannelID: f.Channel.ID}
	require.NoError(t, db.Omit("Channel").Create(&f.Store).Error)
	require.NoError(t, db.Create(&f.Customer).Error)
	require.NoError(t, db.Create(&f.User).Error)

	return f
}

// InsertOrder writes an order directly, bypassing the lifecycle rules
func InsertOrder(t *testing.T, db *gorm.DB, f Fixtures, number string, priority models.Priority, status models.Status, lastUpdated time.Time) models.Order {
	t.Helper()

	order := models.Order{
		OrderNumber:   number,
		Description:   "Order " + number,
		Priority:      priority,
		Status:        status,
		CustomerID:    f.Customer.ID,
		StoreID:       f.Store.ID,
		CreatedByID:   &f.User.ID,
		CreatedAt:     lastUpdated,
		LastUpdatedAt: lastUpdated,
	}
	require.NoError(t, db.Omit("Customer", "Store", "CreatedBy", "History").Create(&order).Error)
	return order
}
