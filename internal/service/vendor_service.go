package service

import (
	"context"
	"strings"
	"time"

	"github.com/mesaesabores/orders-api/internal/models"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// VendorService is the vendor-facing surface. It only touches the remote
// store; nothing here reads or writes the local one, and remote updates
// never propagate back to local records.
type VendorService struct {
	remote RemoteStore
	logger logger.Logger
}

// NewVendorService creates a new VendorService. remote may be nil when the
// remote store is unconfigured; every operation then fails.
func NewVendorService(remote RemoteStore, logger logger.Logger) *VendorService {
	return &VendorService{
		remote: remote,
		logger: logger,
	}
}

func (s *VendorService) checkRemote() error {
	if s.remote == nil {
		return apperrors.NewRemoteIntegrationError("remote store not configured")
	}
	return nil
}

// ListOrders fetches remote orders, optionally filtered by remote status
func (s *VendorService) ListOrders(ctx context.Context, status string) ([]models.RemoteOrder, error) {
	if err := s.checkRemote(); err != nil {
		return nil, err
	}

	return s.remote.GetOrders(ctx, status), nil
}

// UpdateStatus updates a remote order's status in the remote vocabulary
func (s *VendorService) UpdateStatus(ctx context.Context, orderID int64, status string) (*models.RemoteOrder, error) {
	if status == "" {
		return nil, apperrors.NewValidationError("Status é obrigatório")
	}

	if !models.ValidRemoteStatus(status) {
		return nil, apperrors.NewValidationError("Status inválido. Use: " + strings.Join(models.RemoteStatuses, ", "))
	}

	if err := s.checkRemote(); err != nil {
		return nil, err
	}

	updated := s.remote.UpdateOrderStatus(ctx, orderID, status)

	if updated == nil {
		return nil, apperrors.NewRemoteIntegrationError("Falha ao atualizar pedido")
	}

	s.logger.Info("Remote order status updated", "remoteOrderID", orderID, "status", status)
	return updated, nil
}

// VendorStats aggregates the fetched remote orders in-process
type VendorStats struct {
	Stats       map[string]int `json:"stats"`
	TotalOrders int            `json:"total_orders"`
	TodayOrders int            `json:"today_orders"`
}

// Stats groups all remote orders by status. "Today" is approximated by a
// string-prefix match on the denormalized order_date field.
func (s *VendorService) Stats(ctx context.Context) (*VendorStats, error) {
	if err := s.checkRemote(); err != nil {
		return nil, err
	}

	orders := s.remote.GetOrders(ctx, "")

	stats := make(map[string]int)
	today := time.Now().Format("2006-01-02")
	todayCount := 0

	for _, order := range orders {
		status := order.Status

		if status == "" {
			status = "unknown"
		}

		stats[status]++

		if strings.HasPrefix(order.OrderDate, today) {
			todayCount++
		}
	}

	return &VendorStats{
		Stats:       stats,
		TotalOrders: len(orders),
		TodayOrders: todayCount,
	}, nil
}
