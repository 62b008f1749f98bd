package service

import (
	"context"
	"strings"
	"time"

	"github.com/mesaesabores/orders-api/internal/models"
	"github.com/mesaesabores/orders-api/internal/repository"
	"github.com/mesaesabores/orders-api/internal/whatsapp"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// RemoteStore is the slice of the hosted backend client the services use.
// Implementations swallow failures and return nil/empty, which callers must
// read as "unknown outcome".
type RemoteStore interface {
	CreateOrder(ctx context.Context, order *models.RemoteOrderCreate) *models.RemoteOrder
	GetOrders(ctx context.Context, status string) []models.RemoteOrder
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) *models.RemoteOrder
	MarkWhatsAppSent(ctx context.Context, orderID int64) *models.RemoteOrder
	MarkVendorNotified(ctx context.Context, orderID int64) *models.RemoteOrder
}

// OrderService orchestrates the order lifecycle: local writes are the
// durability boundary, the remote mirror and link generation are best
// effort.
type OrderService struct {
	orderRepo *repository.OrderRepository
	remote    RemoteStore
	notifier  *whatsapp.Notifier
	strict    bool
	logger    logger.Logger
}

// NewOrderService creates a new OrderService. remote and notifier may be
// nil when their configuration is absent; creation then reports the mirror
// as failed but still commits locally.
func NewOrderService(
	orderRepo *repository.OrderRepository,
	remote RemoteStore,
	notifier *whatsapp.Notifier,
	strict bool,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		remote:    remote,
		notifier:  notifier,
		strict:    strict,
		logger:    logger,
	}
}

// CreateOrderInput carries the creation payload. TotalPrice is a pointer so
// an absent field is distinguishable from zero.
type CreateOrderInput struct {
	CustomerName     string
	CustomerWhatsApp string
	CustomerAddress  string
	PaymentMethod    string
	Items            models.OrderItems
	TotalPrice       *float64
}

// CreateOrderResult distinguishes the committed local outcome from the
// best-effort remote one.
type CreateOrderResult struct {
	Order         *models.Order
	RemoteOrderID *int64
	MessageLink   string
	MirrorSuccess bool
	MirrorError   string
}

func (in *CreateOrderInput) validate() error {
	required := []struct {
		name  string
		empty bool
	}{
		{"customer_name", in.CustomerName == ""},
		{"customer_whatsapp", in.CustomerWhatsApp == ""},
		{"customer_address", in.CustomerAddress == ""},
		{"payment_method", in.PaymentMethod == ""},
		{"items", in.Items == nil},
		{"total_price", in.TotalPrice == nil},
	}

	for _, field := range required {
		if field.empty {
			return apperrors.NewValidationError("Campo obrigatório: " + field.name)
		}
	}

	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return apperrors.NewValidationError("Forma de pagamento inválida. Use: pix, credit_card")
	}

	if *in.TotalPrice < 0 {
		return apperrors.NewValidationError("total_price não pode ser negativo")
	}

	return nil
}

// CreateOrder persists the order locally, then mirrors it to the remote
// store and generates the new-order notification link. The local write is
// the only step that can fail the call; everything after it is reported
// through the result.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	order := models.NewOrder(
		input.CustomerName,
		input.CustomerWhatsApp,
		input.CustomerAddress,
		input.PaymentMethod,
		input.Items,
		*input.TotalPrice,
	)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order created", "orderID", order.ID, "total", order.TotalPrice)

	result := &CreateOrderResult{Order: order}
	s.mirrorOrder(ctx, order, result)

	return result, nil
}

// mirrorOrder performs the best-effort remote write and link generation.
// Failures never propagate; they land in the result as metadata.
func (s *OrderService) mirrorOrder(ctx context.Context, order *models.Order, result *CreateOrderResult) {
	if s.remote == nil {
		result.MirrorError = "remote store not configured"
		s.logger.Warn("Skipping remote mirror", "reason", result.MirrorError, "orderID", order.ID)
		return
	}

	remoteOrder := s.remote.CreateOrder(ctx, &models.RemoteOrderCreate{
		Items:       order.Items,
		TotalAmount: order.TotalPrice,
		Status:      models.RemoteStatusPending,
		UserID:      nil,
	})

	if remoteOrder == nil {
		result.MirrorError = "remote order creation failed"
		s.logger.Warn("Remote mirror failed", "orderID", order.ID)
		return
	}

	result.MirrorSuccess = true
	result.RemoteOrderID = &remoteOrder.ID

	if s.notifier == nil {
		s.logger.Warn("Skipping new-order notification, no recipient configured", "orderID", order.ID)
		return
	}

	// fall back to the local id when the remote row came back without one
	linkID := remoteOrder.ID
	if linkID == 0 {
		linkID = order.ID
	}

	result.MessageLink = s.notifier.NewOrderLink(whatsapp.OrderSummary{
		ID:          linkID,
		Items:       order.Items,
		TotalAmount: order.TotalPrice,
		Status:      models.RemoteStatusPending,
		OrderDate:   time.Now().Format("02/01/2006 15:04"),
	})

	if s.remote.MarkWhatsAppSent(ctx, remoteOrder.ID) == nil {
		s.logger.Warn("Failed to mark remote order as whatsapp_sent", "remoteOrderID", remoteOrder.ID)
	}

	if s.remote.MarkVendorNotified(ctx, remoteOrder.ID) == nil {
		s.logger.Warn("Failed to mark remote order as vendor_notified", "remoteOrderID", remoteOrder.ID)
	}
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders lists orders, newest first, optionally narrowed to a status
// and a calendar day (YYYY-MM-DD, matched in server-local time).
func (s *OrderService) ListOrders(ctx context.Context, status, date string) ([]*models.Order, error) {
	filter := repository.ListFilter{Status: status}

	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)

		if err != nil {
			return nil, apperrors.NewValidationError("Formato de data inválido. Use YYYY-MM-DD")
		}

		filter.DayStart, filter.DayEnd = models.DayBounds(day)
	}

	return s.orderRepo.List(ctx, filter)
}

// UpdateStatus sets an order's status. Any of the six lifecycle values is
// accepted as a direct jump unless strict mode is on, which only allows
// same-or-forward moves.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	if status == "" {
		return nil, apperrors.NewValidationError("Status é obrigatório")
	}

	if !models.ValidStatus(status) {
		return nil, apperrors.NewValidationError("Status inválido. Use: " + strings.Join(models.Statuses, ", "))
	}

	if s.strict {
		current, err := s.orderRepo.GetByID(ctx, id)

		if err != nil {
			return nil, err
		}

		if models.StatusIndex(status) < models.StatusIndex(current.Status) {
			return nil, apperrors.NewValidationError("Transição de status inválida: " + current.Status + " -> " + status)
		}
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)

	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated", "orderID", order.ID, "status", status)
	return order, nil
}

// StatusLinkResult is the rendered customer notification for an order
type StatusLinkResult struct {
	Message       string
	Link          string
	Recipient     string
	Status        string
	StatusDisplay string
}

// StatusLink renders the status notification link for the order's customer
func (s *OrderService) StatusLink(ctx context.Context, id int64) (*StatusLinkResult, error) {
	order, err := s.orderRepo.GetByID(ctx, id)

	if err != nil {
		return nil, err
	}

	message, link := whatsapp.StatusLink(order)

	return &StatusLinkResult{
		Message:       message,
		Link:          link,
		Recipient:     order.CustomerWhatsApp,
		Status:        order.Status,
		StatusDisplay: models.StatusDisplay(order.Status),
	}, nil
}

// StatusStat is the per-status slice of the stats response
type StatusStat struct {
	Count   int    `json:"count"`
	Display string `json:"display"`
}

// OrderStats aggregates the local store
type OrderStats struct {
	Stats       map[string]StatusStat `json:"stats"`
	TotalOrders int                   `json:"total_orders"`
	TodayOrders int                   `json:"today_orders"`
}

// Stats counts orders per status, in total, and for the current server-local day
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	stats := make(map[string]StatusStat, len(models.Statuses))

	for _, status := range models.Statuses {
		count, err := s.orderRepo.CountByStatus(ctx, status)

		if err != nil {
			return nil, err
		}

		stats[status] = StatusStat{Count: count, Display: models.StatusDisplay(status)}
	}

	total, err := s.orderRepo.Count(ctx)

	if err != nil {
		return nil, err
	}

	start, end := models.DayBounds(time.Now())
	today, err := s.orderRepo.CountCreatedBetween(ctx, start, end)

	if err != nil {
		return nil, err
	}

	return &OrderStats{
		Stats:       stats,
		TotalOrders: total,
		TodayOrders: today,
	}, nil
}
