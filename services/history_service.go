package services

import (
	"context"
	"time"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/gorm"
)

// Fixed history texts
const (
	HistoryOrderCreated    = "Order created"
	HistoryFinalPrefix     = "FINAL RESOLUTION: "
	HistoryAttachmentAdded = "Attachment added: "
)

// HistoryService owns the append-only order history ledger
type HistoryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewHistoryService creates a history service on db
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db, now: time.Now}
}

// WithClock replaces the time source used to stamp entries
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	return &HistoryService{db: s.db, now: now}
}

// WithTx returns a copy of the service that writes through tx
func (s *HistoryService) WithTx(tx *gorm.DB) *HistoryService {
	return &HistoryService{db: tx, now: s.now}
}

// Append records text against orderID, timestamped now. Any string is accepted.
func (s *HistoryService) Append(ctx context.Context, orderID uint, text string) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		OrderID:     orderID,
		Description: text,
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, translateDBError(err, nil, nil, errOrderNotFound(), "append order history")
	}
	return entry, nil
}

// List returns the entries of an order, oldest first
func (s *HistoryService) List(ctx context.Context, orderID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, NewInternalError("Failed to load order history", err)
	}
	return entries, nil
}
