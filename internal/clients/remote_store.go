package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mesaesabores/orders-api/internal/config"
	"github.com/mesaesabores/orders-api/internal/models"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// RemoteStore is a thin client for the hosted backend's order table. Every
// operation swallows failures: it logs and returns nil or an empty slice,
// and callers must treat that as "unknown outcome", not "nothing happened".
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewRemoteStore creates a client for the hosted backend. It fails fast
// when connection credentials are absent.
func NewRemoteStore(cfg config.RemoteConfig, logger logger.Logger) (*RemoteStore, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set")
	}

	return &RemoteStore{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.Key,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

func (c *RemoteStore) newRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)

		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)

	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Have the backend echo affected rows back
	req.Header.Set("Prefer", "return=representation")

	return req, nil
}

// do performs a single attempt and decodes the row array the backend
// returns. No retries and no backoff.
func (c *RemoteStore) do(req *http.Request) ([]models.RemoteOrder, error) {
	resp, err := c.httpClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("remote store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if len(body) == 0 {
		return nil, nil
	}

	var orders []models.RemoteOrder

	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return orders, nil
}

// CreateOrder inserts a new order in the remote store. Returns nil on any
// failure.
func (c *RemoteStore) CreateOrder(ctx context.Context, order *models.RemoteOrderCreate) *models.RemoteOrder {
	url := fmt.Sprintf("%s/rest/v1/orders", c.baseURL)

	req, err := c.newRequest(ctx, http.MethodPost, url, order)

	if err != nil {
		c.logger.Error("Failed to build remote create request", "error", err)
		return nil
	}

	rows, err := c.do(req)

	if err != nil || len(rows) == 0 {
		c.logger.Error("Failed to create remote order", "error", err)
		return nil
	}

	return &rows[0]
}

// GetOrders fetches remote orders, optionally filtered by status. Returns
// an empty slice on any failure.
func (c *RemoteStore) GetOrders(ctx context.Context, status string) []models.RemoteOrder {
	url := fmt.Sprintf("%s/rest/v1/orders?select=*", c.baseURL)

	if status != "" {
		url += "&status=eq." + status
	}

	req, err := c.newRequest(ctx, http.MethodGet, url, nil)

	if err != nil {
		c.logger.Error("Failed to build remote list request", "error", err)
		return []models.RemoteOrder{}
	}

	rows, err := c.do(req)

	if err != nil {
		c.logger.Error("Failed to fetch remote orders", "error", err, "status", status)
		return []models.RemoteOrder{}
	}

	if rows == nil {
		rows = []models.RemoteOrder{}
	}

	return rows
}

// UpdateOrderStatus updates a remote order's status. Returns nil on any
// failure.
func (c *RemoteStore) UpdateOrderStatus(ctx context.Context, orderID int64, status string) *models.RemoteOrder {
	return c.patch(ctx, orderID, map[string]interface{}{"status": status})
}

// MarkWhatsAppSent flags a remote order as notified over WhatsApp
func (c *RemoteStore) MarkWhatsAppSent(ctx context.Context, orderID int64) *models.RemoteOrder {
	return c.patch(ctx, orderID, map[string]interface{}{"whatsapp_sent": true})
}

// MarkVendorNotified flags a remote order as seen by the vendor
func (c *RemoteStore) MarkVendorNotified(ctx context.Context, orderID int64) *models.RemoteOrder {
	return c.patch(ctx, orderID, map[string]interface{}{"vendor_notified": true})
}

func (c *RemoteStore) patch(ctx context.Context, orderID int64, fields map[string]interface{}) *models.RemoteOrder {
	url := fmt.Sprintf("%s/rest/v1/orders?id=eq.%d", c.baseURL, orderID)

	req, err := c.newRequest(ctx, http.MethodPatch, url, fields)

	if err != nil {
		c.logger.Error("Failed to build remote update request", "error", err, "orderID", orderID)
		return nil
	}

	rows, err := c.do(req)

	if err != nil || len(rows) == 0 {
		c.logger.Error("Failed to update remote order", "error", err, "orderID", orderID)
		return nil
	}

	return &rows[0]
}
