package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaesabores/orders-api/internal/config"
	"github.com/mesaesabores/orders-api/internal/database"
	"github.com/mesaesabores/orders-api/internal/models"
	"github.com/mesaesabores/orders-api/internal/repository"
	"github.com/mesaesabores/orders-api/internal/whatsapp"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// fakeRemoteStore records calls and can be switched into failure mode,
// mimicking the real client's nil-on-failure contract.
type fakeRemoteStore struct {
	fail           bool
	nextID         int64
	orders         []models.RemoteOrder
	whatsappSent   []int64
	vendorNotified []int64
}

func (f *fakeRemoteStore) CreateOrder(_ context.Context, order *models.RemoteOrderCreate) *models.RemoteOrder {
	if f.fail {
		return nil
	}

	f.nextID++
	created := models.RemoteOrder{
		ID:          f.nextID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		UserID:      order.UserID,
	}
	f.orders = append(f.orders, created)
	return &created
}

func (f *fakeRemoteStore) GetOrders(_ context.Context, status string) []models.RemoteOrder {
	if f.fail {
		return []models.RemoteOrder{}
	}

	if status == "" {
		return f.orders
	}

	matched := []models.RemoteOrder{}
	for _, o := range f.orders {
		if o.Status == status {
			matched = append(matched, o)
		}
	}
	return matched
}

func (f *fakeRemoteStore) UpdateOrderStatus(_ context.Context, orderID int64, status string) *models.RemoteOrder {
	if f.fail {
		return nil
	}

	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			return &f.orders[i]
		}
	}
	return nil
}

func (f *fakeRemoteStore) MarkWhatsAppSent(_ context.Context, orderID int64) *models.RemoteOrder {
	if f.fail {
		return nil
	}
	f.whatsappSent = append(f.whatsappSent, orderID)
	return &models.RemoteOrder{ID: orderID, WhatsAppSent: true}
}

func (f *fakeRemoteStore) MarkVendorNotified(_ context.Context, orderID int64) *models.RemoteOrder {
	if f.fail {
		return nil
	}
	f.vendorNotified = append(f.vendorNotified, orderID)
	return &models.RemoteOrder{ID: orderID, VendorNotified: true}
}

func newTestService(t *testing.T, remote RemoteStore, strict bool) *OrderService {
	t.Helper()

	cfg := &config.Config{DB: config.DBConfig{Path: filepath.Join(t.TempDir(), "orders.db")}}
	log := logger.NewLogger("error")

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	notifier, err := whatsapp.NewNotifier("5511888888888")
	require.NoError(t, err)

	return NewOrderService(repository.NewOrderRepository(db, log), remote, notifier, strict, log)
}

func validInput() CreateOrderInput {
	total := 30.0
	return CreateOrderInput{
		CustomerName:     "Ana",
		CustomerWhatsApp: "5511999999999",
		CustomerAddress:  "Rua A, 10",
		PaymentMethod:    models.PaymentPix,
		Items:            models.OrderItems{{Name: "Pizza", Quantity: 1, Price: 30.0}},
		TotalPrice:       &total,
	}
}

func TestCreateOrderMirrorsAndNotifies(t *testing.T) {
	remote := &fakeRemoteStore{}
	svc := newTestService(t, remote, false)

	result, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusReceived, result.Order.Status)
	assert.True(t, result.MirrorSuccess)
	require.NotNil(t, result.RemoteOrderID)
	assert.Equal(t, int64(1), *result.RemoteOrderID)
	assert.Contains(t, result.MessageLink, "https://wa.me/5511888888888?text=")

	// mirror carries the remote vocabulary, never the local one
	require.Len(t, remote.orders, 1)
	assert.Equal(t, models.RemoteStatusPending, remote.orders[0].Status)
	assert.Nil(t, remote.orders[0].UserID)

	assert.Equal(t, []int64{1}, remote.whatsappSent)
	assert.Equal(t, []int64{1}, remote.vendorNotified)
}

func TestCreateOrderSurvivesRemoteFailure(t *testing.T) {
	remote := &fakeRemoteStore{fail: true}
	svc := newTestService(t, remote, false)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	assert.False(t, result.MirrorSuccess)
	assert.NotEmpty(t, result.MirrorError)
	assert.Nil(t, result.RemoteOrderID)
	assert.Empty(t, result.MessageLink)

	// the local write committed regardless
	got, err := svc.GetOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, got.ID)
	assert.Equal(t, validInput().Items, got.Items)
}

func TestCreateOrderWithoutRemoteConfigured(t *testing.T) {
	svc := newTestService(t, nil, false)

	result, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, result.MirrorSuccess)
	assert.Equal(t, "remote store not configured", result.MirrorError)
}

func TestCreateOrderValidationNamesMissingField(t *testing.T) {
	svc := newTestService(t, nil, false)
	ctx := context.Background()

	cases := []struct {
		mutate func(*CreateOrderInput)
		field  string
	}{
		{func(in *CreateOrderInput) { in.CustomerName = "" }, "customer_name"},
		{func(in *CreateOrderInput) { in.CustomerWhatsApp = "" }, "customer_whatsapp"},
		{func(in *CreateOrderInput) { in.CustomerAddress = "" }, "customer_address"},
		{func(in *CreateOrderInput) { in.PaymentMethod = "" }, "payment_method"},
		{func(in *CreateOrderInput) { in.Items = nil }, "items"},
		{func(in *CreateOrderInput) { in.TotalPrice = nil }, "total_price"},
	}

	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)

		_, err := svc.CreateOrder(ctx, input)
		require.Error(t, err, tc.field)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), tc.field)
		assert.Contains(t, err.Error(), tc.field)
	}

	// nothing was written
	orders, err := svc.ListOrders(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrderRejectsBadPaymentMethod(t *testing.T) {
	svc := newTestService(t, nil, false)

	input := validInput()
	input.PaymentMethod = "cash"

	_, err := svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCreateOrderRejectsNegativeTotal(t *testing.T) {
	svc := newTestService(t, nil, false)

	input := validInput()
	negative := -1.0
	input.TotalPrice = &negative

	_, err := svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestListOrdersRejectsMalformedDate(t *testing.T) {
	svc := newTestService(t, nil, false)

	_, err := svc.ListOrders(context.Background(), "", "01-09-2026")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateStatusPermissiveAllowsJumps(t *testing.T) {
	svc := newTestService(t, nil, false)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	order, err := svc.UpdateStatus(ctx, result.Order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)

	// backward moves are accepted too in permissive mode
	order, err = svc.UpdateStatus(ctx, result.Order.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.Status)
}

func TestUpdateStatusStrictRejectsBackwardMoves(t *testing.T) {
	svc := newTestService(t, nil, true)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	order, err := svc.UpdateStatus(ctx, result.Order.ID, models.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, order.Status)

	// re-asserting the current status stays allowed
	_, err = svc.UpdateStatus(ctx, result.Order.ID, models.StatusReady)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, result.Order.ID, models.StatusPaid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService(t, nil, false)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, result.Order.ID, "invalid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	// the remote vocabulary is not accepted on the local lifecycle
	_, err = svc.UpdateStatus(ctx, result.Order.ID, models.RemoteStatusCancelled)
	require.Error(t, err)

	got, err := svc.GetOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, got.Status)
}

func TestStatusLink(t *testing.T) {
	svc := newTestService(t, nil, false)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)

	link, err := svc.StatusLink(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "5511999999999", link.Recipient)
	assert.Equal(t, models.StatusReceived, link.Status)
	assert.Equal(t, "Pedido Recebido", link.StatusDisplay)
	assert.Contains(t, link.Link, "https://wa.me/5511999999999?text=")
	assert.Contains(t, link.Message, "Ana")
}

func TestStats(t *testing.T) {
	svc := newTestService(t, nil, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, validInput())
		require.NoError(t, err)
	}
	_, err := svc.UpdateStatus(ctx, 1, models.StatusPreparing)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 3, stats.TodayOrders)
	assert.Len(t, stats.Stats, 6)
	assert.Equal(t, 2, stats.Stats[models.StatusReceived].Count)
	assert.Equal(t, 1, stats.Stats[models.StatusPreparing].Count)
	assert.Equal(t, "Em Preparo", stats.Stats[models.StatusPreparing].Display)
	assert.Equal(t, 0, stats.Stats[models.StatusDelivered].Count)
}
