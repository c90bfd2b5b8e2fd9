package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/kendall-kelly/pedidos-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrderInput carries the fields accepted when opening an order
type CreateOrderInput struct {
	OrderNumber  string
	TicketNumber *string
	Description  string
	Resolution   *string
	ExternalCode *string
	Priority     models.Priority
	Status       models.Status // optional, defaults to OPEN
	CustomerID   uint
	StoreID      uint
	CreatedByID  *uint
}

// UpdateOrderInput carries a partial update; nil fields are left untouched.
// The order number is immutable and therefore absent.
type UpdateOrderInput struct {
	TicketNumber *string
	Description  *string
	Resolution   *string
	ExternalCode *string
	Priority     *models.Priority
	Status       *models.Status
	CustomerID   *uint
	StoreID      *uint
}

// OrderSummary counts orders by status and by priority
type OrderSummary struct {
	Total      int64                     `json:"total"`
	ByStatus   map[models.Status]int64   `json:"by_status"`
	ByPriority map[models.Priority]int64 `json:"by_priority"`
}

// EscalationChange describes one priority bump applied by Reconcile
type EscalationChange struct {
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	From        models.Priority `json:"from"`
	To          models.Priority `json:"to"`
}

// OrderService implements the order lifecycle
type OrderService struct {
	db          *gorm.DB
	now         func() time.Time
	history     *HistoryService
	attachments *AttachmentService
}

// NewOrderService creates an order service on db using the wall clock
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now, history: NewHistoryService(db)}
}

// WithClock replaces the time source of the service and its ledger (tests)
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	s.history = s.history.WithClock(now)
	return s
}

// WithAttachments enables AttachFile and attachment URL resolution
func (s *OrderService) WithAttachments(attachments *AttachmentService) *OrderService {
	s.attachments = attachments
	return s
}

func errOrderNotFound() *Error {
	return NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
}

func errOrderNumberTaken() *Error {
	return NewConflictError("ORDER_NUMBER_TAKEN", "An order with this order number already exists")
}

// Create validates and persists a new order together with its first history entry
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.OrderNumber == "":
		return nil, NewValidationError("ORDER_NUMBER_REQUIRED", "Order number is required")
	case in.Description == "":
		return nil, NewValidationError("DESCRIPTION_REQUIRED", "Description is required")
	case in.Priority == "":
		return nil, NewValidationError("PRIORITY_REQUIRED", "Priority is required")
	case !in.Priority.IsValid():
		return nil, NewValidationError("INVALID_PRIORITY", "Priority must be LOW, MEDIUM or HIGH")
	case in.CustomerID == 0:
		return nil, NewValidationError("CUSTOMER_REQUIRED", "Customer is required")
	case in.StoreID == 0:
		return nil, NewValidationError("STORE_REQUIRED", "Store is required")
	}

	if in.Status == "" {
		in.Status = models.StatusOpen
	}
	if !in.Status.IsValid() {
		return nil, NewValidationError("INVALID_STATUS", "Status must be OPEN, IN_PROGRESS or FINALIZED")
	}
	if in.Status.IsTerminal() {
		return nil, NewValidationError("INVALID_STATUS", "An order cannot be created already finalized")
	}

	db := s.db.WithContext(ctx)
	if err := s.checkReferences(db, &in.CustomerID, &in.StoreID, in.CreatedByID); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("order_number = ?", in.OrderNumber).Count(&count).Error; err != nil {
		return nil, NewInternalError("Failed to check order number", err)
	}
	if count > 0 {
		return nil, errOrderNumberTaken()
	}

	now := s.now()
	order := models.Order{
		OrderNumber:   in.OrderNumber,
		TicketNumber:  in.TicketNumber,
		Description:   in.Description,
		Resolution:    in.Resolution,
		ExternalCode:  in.ExternalCode,
		Priority:      in.Priority,
		Status:        in.Status,
		CustomerID:    in.CustomerID,
		StoreID:       in.StoreID,
		CreatedByID:   in.CreatedByID,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return translateDBError(err, nil, errOrderNumberTaken(),
				NewValidationError("INVALID_REFERENCE", "Customer, store or creator does not exist"), "create order")
		}
		_, err := s.history.WithTx(tx).Append(ctx, order.ID, HistoryOrderCreated)
		return err
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.escalate(db, &order, s.now()); err != nil {
		return nil, err
	}

	return s.Get(ctx, order.ID)
}

// Update applies a partial update. Only a new non-blank resolution produces a history entry.
func (s *OrderService) Update(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error) {
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}

		if in.Description != nil {
			description := strings.TrimSpace(*in.Description)
			if description == "" {
				return NewValidationError("DESCRIPTION_REQUIRED", "Description cannot be blank")
			}
			updates["description"] = description
		}
		if in.TicketNumber != nil {
			updates["ticket_number"] = *in.TicketNumber
		}
		if in.ExternalCode != nil {
			updates["external_code"] = *in.ExternalCode
		}

		if err := s.checkReferences(tx, in.CustomerID, in.StoreID, nil); err != nil {
			return err
		}
		if in.CustomerID != nil {
			updates["customer_id"] = *in.CustomerID
		}
		if in.StoreID != nil {
			updates["store_id"] = *in.StoreID
		}

		if in.Priority != nil {
			if !in.Priority.IsValid() {
				return NewValidationError("INVALID_PRIORITY", "Priority must be LOW, MEDIUM or HIGH")
			}
			if order.Status.IsTerminal() && *in.Priority != order.Priority {
				return NewConflictError("ORDER_FINALIZED", "The priority of a finalized order cannot change")
			}
			updates["priority"] = *in.Priority
		}

		if in.Status != nil {
			if !in.Status.IsValid() {
				return NewValidationError("INVALID_STATUS", "Status must be OPEN, IN_PROGRESS or FINALIZED")
			}
			if order.Status.IsTerminal() && !in.Status.IsTerminal() {
				return NewConflictError("ORDER_FINALIZED", "A finalized order cannot be reopened")
			}
			updates["status"] = *in.Status
			if in.Status.IsTerminal() && order.FinalizedAt == nil {
				updates["finalized_at"] = now
			}
		}

		if in.Resolution != nil && strings.TrimSpace(*in.Resolution) != "" &&
			(order.Resolution == nil || *order.Resolution != *in.Resolution) {
			updates["resolution"] = *in.Resolution
			if _, err := s.history.WithTx(tx).Append(ctx, order.ID, *in.Resolution); err != nil {
				return err
			}
		}

		updates["last_updated_at"] = now
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return translateDBError(err, nil, nil,
				NewValidationError("INVALID_REFERENCE", "Customer or store does not exist"), "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// AppendUpdate records a free-text progress note on an order
func (s *OrderService) AppendUpdate(ctx context.Context, id uint, description string) (*models.Order, error) {
	if strings.TrimSpace(description) == "" {
		return nil, NewValidationError("DESCRIPTION_REQUIRED", "Update description is required")
	}

	db := s.db.WithContext(ctx)
	now := s.now()

	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = findOrder(tx, id); err != nil {
			return err
		}
		if _, err := s.history.WithTx(tx).Append(ctx, order.ID, description); err != nil {
			return err
		}
		order.LastUpdatedAt = now
		if err := tx.Model(order).UpdateColumn("last_updated_at", now).Error; err != nil {
			return NewInternalError("Failed to update order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.escalate(db, order, s.now()); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Finalize closes an order with a resolution. Finalizing again overwrites the resolution.
func (s *OrderService) Finalize(ctx context.Context, id uint, resolution string) (*models.Order, error) {
	if strings.TrimSpace(resolution) == "" {
		return nil, NewValidationError("RESOLUTION_REQUIRED", "Resolution is required")
	}

	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if _, err := s.history.WithTx(tx).Append(ctx, order.ID, HistoryFinalPrefix+resolution); err != nil {
			return err
		}
		err = tx.Model(order).Updates(map[string]interface{}{
			"resolution":      resolution,
			"status":          models.StatusFinalized,
			"finalized_at":    now,
			"last_updated_at": now,
		}).Error
		if err != nil {
			return NewInternalError("Failed to finalize order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// List returns every order, most recently updated first, escalating stale ones on the way
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	db := s.db.WithContext(ctx)

	var orders []models.Order
	if err := withOrderRelations(db).Order("last_updated_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, NewInternalError("Failed to list orders", err)
	}

	now := s.now()
	for i := range orders {
		if _, err := s.escalate(db, &orders[i], now); err != nil {
			return nil, err
		}
		s.resolveAttachmentURL(ctx, &orders[i])
	}

	return orders, nil
}

// Get returns one order with its relations
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := withOrderRelations(s.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, translateDBError(err, errOrderNotFound(), nil, nil, "load order")
	}
	s.resolveAttachmentURL(ctx, &order)
	return &order, nil
}

// Delete removes an order and its history
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	var attachmentKey *string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		attachmentKey = order.AttachmentKey

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return NewInternalError("Failed to delete order history", err)
		}
		if err := tx.Delete(order).Error; err != nil {
			return NewInternalError("Failed to delete order", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if attachmentKey != nil && s.attachments != nil {
		if err := s.attachments.Delete(ctx, *attachmentKey); err != nil {
			slog.Default().Warn("failed to delete order attachment", "order_id", id, "key", *attachmentKey, "error", err)
		}
	}
	return nil
}

// History returns the ledger of an order in creation order
func (s *OrderService) History(ctx context.Context, id uint) ([]models.HistoryEntry, error) {
	db := s.db.WithContext(ctx)
	if _, err := findOrder(db, id); err != nil {
		return nil, err
	}
	return s.history.List(ctx, id)
}

// Summary counts orders per status and per priority
func (s *OrderService) Summary(ctx context.Context) (*OrderSummary, error) {
	db := s.db.WithContext(ctx)

	summary := &OrderSummary{
		ByStatus: map[models.Status]int64{
			models.StatusOpen: 0, models.StatusInProgress: 0, models.StatusFinalized: 0,
		},
		ByPriority: map[models.Priority]int64{
			models.PriorityLow: 0, models.PriorityMedium: 0, models.PriorityHigh: 0,
		},
	}

	var byStatus []statusCount
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, NewInternalError("Failed to summarize orders", err)
	}
	for _, row := range byStatus {
		summary.ByStatus[row.Status] = row.Count
		summary.Total += row.Count
	}

	var byPriority []priorityCount
	if err := db.Model(&models.Order{}).Select("priority, COUNT(*) AS count").Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, NewInternalError("Failed to summarize orders", err)
	}
	for _, row := range byPriority {
		summary.ByPriority[row.Priority] = row.Count
	}

	return summary, nil
}

type statusCount struct {
	Status models.Status
	Count  int64
}

type priorityCount struct {
	Priority models.Priority
	Count    int64
}

// Reconcile escalates every non-finalized order and reports the changes it made
func (s *OrderService) Reconcile(ctx context.Context) ([]EscalationChange, error) {
	db := s.db.WithContext(ctx)

	var orders []models.Order
	if err := db.Where("status <> ?", models.StatusFinalized).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, NewInternalError("Failed to load orders for escalation", err)
	}

	now := s.now()
	changes := []EscalationChange{}
	for i := range orders {
		from := orders[i].Priority
		changed, err := s.escalate(db, &orders[i], now)
		if err != nil {
			return changes, err
		}
		if changed {
			changes = append(changes, EscalationChange{
				OrderID:     orders[i].ID,
				OrderNumber: orders[i].OrderNumber,
				From:        from,
				To:          orders[i].Priority,
			})
		}
	}

	return changes, nil
}

// AttachFile uploads a file for an order, replacing any previous attachment
func (s *OrderService) AttachFile(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (*models.Order, error) {
	if s.attachments == nil {
		return nil, NewInternalError("Attachment storage is not configured", errors.New("no attachment service"))
	}

	db := s.db.WithContext(ctx)
	order, err := findOrder(db, id)
	if err != nil {
		return nil, err
	}

	key, err := s.attachments.Upload(ctx, fmt.Sprintf("order-%d", order.ID), fileHeader)
	if err != nil {
		return nil, err
	}

	// Copy the old key out: the update below rewrites the string order.AttachmentKey points at
	var previous string
	if order.AttachmentKey != nil {
		previous = *order.AttachmentKey
	}
	now := s.now()
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(order).Updates(map[string]interface{}{
			"attachment_key":  key,
			"last_updated_at": now,
		}).Error
		if err != nil {
			return NewInternalError("Failed to save attachment", err)
		}
		_, err = s.history.WithTx(tx).Append(ctx, order.ID, HistoryAttachmentAdded+filepath.Base(fileHeader.Filename))
		return err
	})
	if err != nil {
		if delErr := s.attachments.Delete(ctx, key); delErr != nil {
			slog.Default().Warn("failed to remove orphaned attachment", "key", key, "error", delErr)
		}
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.attachments.Delete(ctx, previous); err != nil {
			slog.Default().Warn("failed to delete replaced attachment", "order_id", id, "key", previous, "error", err)
		}
	}

	return s.Get(ctx, id)
}

// escalate applies the escalation policy to order, writing only the priority column when it changes
func (s *OrderService) escalate(db *gorm.DB, order *models.Order, now time.Time) (bool, error) {
	next := EscalatePriority(order.Priority, order.Status, ElapsedDays(order.LastUpdatedAt, now))
	if next == order.Priority {
		return false, nil
	}
	// Target the row by id so preloaded relations are never written back
	if err := db.Model(&models.Order{ID: order.ID}).UpdateColumn("priority", next).Error; err != nil {
		return false, NewInternalError("Failed to escalate order priority", err)
	}
	order.Priority = next
	return true, nil
}

func (s *OrderService) resolveAttachmentURL(ctx context.Context, order *models.Order) {
	if s.attachments == nil || order.AttachmentKey == nil {
		return
	}
	url, err := s.attachments.URL(ctx, *order.AttachmentKey)
	if err != nil {
		slog.Default().Warn("failed to resolve attachment url", "order_id", order.ID, "error", err)
		return
	}
	order.AttachmentURL = &url
}

// checkReferences verifies that the referenced customer, store and creator exist; nil ids are skipped
func (s *OrderService) checkReferences(db *gorm.DB, customerID, storeID, creatorID *uint) error {
	checks := []struct {
		id    *uint
		model interface{}
		err   *Error
	}{
		{customerID, &models.Customer{}, NewValidationError("INVALID_CUSTOMER", "Customer does not exist")},
		{storeID, &models.Store{}, NewValidationError("INVALID_STORE", "Store does not exist")},
		{creatorID, &models.User{}, NewValidationError("INVALID_CREATOR", "Creating user does not exist")},
	}

	for _, check := range checks {
		if check.id == nil {
			continue
		}
		exists, err := recordExists(db, check.model, *check.id)
		if err != nil {
			return err
		}
		if !exists {
			return check.err
		}
	}
	return nil
}

func findOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, translateDBError(err, errOrderNotFound(), nil, nil, "load order")
	}
	return &order, nil
}

func withOrderRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Store").
		Preload("Store.Channel").
		Preload("CreatedBy").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func recordExists(db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, NewInternalError("Failed to check reference", err)
	}
	return count > 0, nil
}
