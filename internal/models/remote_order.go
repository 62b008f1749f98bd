package models

import "encoding/json"

// RemoteOrder is the hosted backend's view of an order. It lives in a
// separate identity space and uses its own status vocabulary; it is never
// converted into a local Order.
type RemoteOrder struct {
	ID             int64           `json:"id"`
	Items          json.RawMessage `json:"items,omitempty"`
	TotalAmount    float64         `json:"total_amount"`
	Status         string          `json:"status"`
	UserID         *string         `json:"user_id"`
	WhatsAppSent   bool            `json:"whatsapp_sent"`
	VendorNotified bool            `json:"vendor_notified"`
	OrderDate      string          `json:"order_date,omitempty"`
}

// Remote status vocabulary
const (
	RemoteStatusPending   = "pending"
	RemoteStatusConfirmed = "confirmed"
	RemoteStatusPreparing = "preparing"
	RemoteStatusReady     = "ready"
	RemoteStatusDelivered = "delivered"
	RemoteStatusCancelled = "cancelled"
)

// RemoteStatuses lists the valid remote status values
var RemoteStatuses = []string{
	RemoteStatusPending,
	RemoteStatusConfirmed,
	RemoteStatusPreparing,
	RemoteStatusReady,
	RemoteStatusDelivered,
	RemoteStatusCancelled,
}

// ValidRemoteStatus reports whether status is a valid remote vocabulary value
func ValidRemoteStatus(status string) bool {
	for _, s := range RemoteStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RemoteOrderCreate is the payload mirrored to the hosted backend when a
// local order is created. Status is always the remote vocabulary's initial
// value and the user is unassigned.
type RemoteOrderCreate struct {
	Items       OrderItems `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	Status      string     `json:"status"`
	UserID      *string    `json:"user_id"`
}
