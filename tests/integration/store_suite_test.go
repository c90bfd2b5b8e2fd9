package integration

import (
	"context"
	"errors"
	"time"

	"github.com/kendall-kelly/pedidos-api/models"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	services.PasswordHashCost = bcrypt.MinCost
}

// tables in delete order, children first
var tables = []string{"order_history", "orders", "stores", "channels", "customers", "users"}

// OrderStoreTestSuite exercises the services against a real database engine.
// Each runner supplies newDB; the suite only relies on behaviour shared by every driver.
type OrderStoreTestSuite struct {
	suite.Suite
	newDB func() *gorm.DB
	db    *gorm.DB
	ctx   context.Context

	channel  *models.Channel
	store    *models.Store
	customer *models.Customer
	user     *models.User
}

func (s *OrderStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = s.newDB()
	for _, table := range tables {
		s.Require().NoError(s.db.Exec("DELETE FROM " + table).Error)
	}

	var err error
	s.channel, err = services.NewChannelService(s.db).Create(s.ctx, services.ChannelInput{Name: strPtr("Marketplace")})
	s.Require().NoError(err)
	s.store, err = services.NewStoreService(s.db).Create(s.ctx, services.StoreInput{Name: strPtr("Loja Centro"), ChannelID: &s.channel.ID})
	s.Require().NoError(err)
	s.customer, err = services.NewCustomerService(s.db).Create(s.ctx, services.CustomerInput{Name: strPtr("Maria Silva"), NationalID: strPtr("123.456.789-09")})
	s.Require().NoError(err)
	s.user, err = services.NewUserService(s.db).Create(s.ctx, services.UserInput{
		Name:     strPtr("Operator"),
		Email:    strPtr("operator@pedidos.test"),
		Password: strPtr("s3cret-pass"),
	})
	s.Require().NoError(err)
}

func (s *OrderStoreTestSuite) createOrder(orders *services.OrderService, number string, priority models.Priority) *models.Order {
	order, err := orders.Create(s.ctx, services.CreateOrderInput{
		OrderNumber: number,
		Description: "Pedido " + number,
		Priority:    priority,
		CustomerID:  s.customer.ID,
		StoreID:     s.store.ID,
		CreatedByID: &s.user.ID,
	})
	s.Require().NoError(err)
	return order
}

func (s *OrderStoreTestSuite) TestDuplicateOrderNumberIsConflict() {
	orders := services.NewOrderService(s.db)
	s.createOrder(orders, "PED-1", models.PriorityLow)

	_, err := orders.Create(s.ctx, services.CreateOrderInput{
		OrderNumber: "PED-1",
		Description: "Again",
		Priority:    models.PriorityLow,
		CustomerID:  s.customer.ID,
		StoreID:     s.store.ID,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, services.ErrConflict))
	s.Equal("ORDER_NUMBER_TAKEN", services.AsError(err).Code)
}

func (s *OrderStoreTestSuite) TestDeletingReferencedRowsIsConflict() {
	s.createOrder(services.NewOrderService(s.db), "PED-2", models.PriorityLow)

	err := services.NewStoreService(s.db).Delete(s.ctx, s.store.ID)
	s.Require().Error(err)
	s.Equal("STORE_IN_USE", services.AsError(err).Code)

	err = services.NewChannelService(s.db).Delete(s.ctx, s.channel.ID)
	s.Require().Error(err)
	s.Equal("CHANNEL_IN_USE", services.AsError(err).Code)

	err = services.NewCustomerService(s.db).Delete(s.ctx, s.customer.ID)
	s.Require().Error(err)
	s.Equal("CUSTOMER_IN_USE", services.AsError(err).Code)
}

func (s *OrderStoreTestSuite) TestDeletingCreatorKeepsOrder() {
	orders := services.NewOrderService(s.db)
	order := s.createOrder(orders, "PED-3", models.PriorityMedium)

	s.Require().NoError(services.NewUserService(s.db).Delete(s.ctx, s.user.ID))

	reloaded, err := orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Nil(reloaded.CreatedByID)
}

func (s *OrderStoreTestSuite) TestLifecycleAndHistory() {
	orders := services.NewOrderService(s.db)
	order := s.createOrder(orders, "PED-4", models.PriorityLow)

	_, err := orders.AppendUpdate(s.ctx, order.ID, "Loja contatada")
	s.Require().NoError(err)
	finalized, err := orders.Finalize(s.ctx, order.ID, "Reembolso emitido")
	s.Require().NoError(err)
	s.Equal(models.StatusFinalized, finalized.Status)
	s.NotNil(finalized.FinalizedAt)

	history, err := orders.History(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(services.HistoryOrderCreated, history[0].Description)
	s.Equal(services.HistoryFinalPrefix+"Reembolso emitido", history[2].Description)

	s.Require().NoError(orders.Delete(s.ctx, order.ID))
	var count int64
	s.Require().NoError(s.db.Model(&models.HistoryEntry{}).Where("order_id = ?", order.ID).Count(&count).Error)
	s.Zero(count)
}

func (s *OrderStoreTestSuite) TestReconcileAndSummary() {
	now := time.Now()
	orders := services.NewOrderService(s.db).WithClock(func() time.Time { return now })

	stale := s.createOrder(orders, "PED-5", models.PriorityLow)
	fresh := s.createOrder(orders, "PED-6", models.PriorityLow)
	done := s.createOrder(orders, "PED-7", models.PriorityLow)
	_, err := orders.Finalize(s.ctx, done.ID, "ok")
	s.Require().NoError(err)

	old := now.Add(-4*24*time.Hour - time.Minute)
	s.Require().NoError(s.db.Model(&models.Order{}).Where("id IN ?", []uint{stale.ID, done.ID}).
		UpdateColumn("last_updated_at", old).Error)

	changes, err := orders.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(changes, 1)
	s.Equal(stale.ID, changes[0].OrderID)
	s.Equal(models.PriorityMedium, changes[0].To)

	reloaded, err := orders.Get(s.ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal(models.PriorityLow, reloaded.Priority)

	summary, err := orders.Summary(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), summary.Total)
	s.Equal(int64(1), summary.ByStatus[models.StatusFinalized])
	s.Equal(int64(2), summary.ByStatus[models.StatusOpen])
	s.Equal(int64(1), summary.ByPriority[models.PriorityMedium])
}

func (s *OrderStoreTestSuite) TestDuplicateEmailAndNationalID() {
	_, err := services.NewUserService(s.db).Create(s.ctx, services.UserInput{
		Name:     strPtr("Other"),
		Email:    strPtr("OPERATOR@pedidos.test"),
		Password: strPtr("another"),
	})
	s.Require().Error(err)
	s.Equal("EMAIL_TAKEN", services.AsError(err).Code)

	_, err = services.NewCustomerService(s.db).Create(s.ctx, services.CustomerInput{
		Name:       strPtr("Outra"),
		NationalID: strPtr("12345678909"),
	})
	s.Require().Error(err)
	s.Equal("NATIONAL_ID_TAKEN", services.AsError(err).Code)
}

func strPtr(s string) *string { return &s }
