package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order represents a customer order in the local store
type Order struct {
	ID               int64      `db:"id" json:"id"`
	CustomerName     string     `db:"customer_name" json:"customer_name"`
	CustomerWhatsApp string     `db:"customer_whatsapp" json:"customer_whatsapp"`
	CustomerAddress  string     `db:"customer_address" json:"customer_address"`
	PaymentMethod    string     `db:"payment_method" json:"payment_method"`
	Items            OrderItems `db:"items" json:"items"`
	TotalPrice       float64    `db:"total_price" json:"total_price"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderItem is a single line item of an order
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderItems is stored serialized as JSON text and exposed structured.
type OrderItems []OrderItem

// Value implements driver.Valuer
func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		i = OrderItems{}
	}

	data, err := json.Marshal(i)

	if err != nil {
		return nil, fmt.Errorf("failed to serialize order items: %w", err)
	}

	return string(data), nil
}

// Scan implements sql.Scanner
func (i *OrderItems) Scan(src interface{}) error {
	if src == nil {
		*i = OrderItems{}
		return nil
	}

	var data []byte

	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan order items from %T", src)
	}

	if len(data) == 0 {
		*i = OrderItems{}
		return nil
	}

	return json.Unmarshal(data, i)
}

// Local order lifecycle, in order of progression
const (
	StatusReceived   = "received"
	StatusPaid       = "paid"
	StatusPreparing  = "preparing"
	StatusReady      = "ready"
	StatusDelivering = "delivering"
	StatusDelivered  = "delivered"
)

// Statuses lists the local lifecycle in progression order
var Statuses = []string{
	StatusReceived,
	StatusPaid,
	StatusPreparing,
	StatusReady,
	StatusDelivering,
	StatusDelivered,
}

var statusDisplay = map[string]string{
	StatusReceived:   "Pedido Recebido",
	StatusPaid:       "Pagamento Confirmado",
	StatusPreparing:  "Em Preparo",
	StatusReady:      "Pronto para Entrega",
	StatusDelivering: "Saiu para Entrega",
	StatusDelivered:  "Entregue",
}

// StatusDisplay returns the friendly name of a status. Unknown statuses are
// returned unchanged.
func StatusDisplay(status string) string {
	if display, ok := statusDisplay[status]; ok {
		return display
	}
	return status
}

// NextStatus returns the status one step ahead in the lifecycle. The second
// return is false for the terminal status and for unknown input.
func NextStatus(status string) (string, bool) {
	for i, s := range Statuses {
		if s == status && i+1 < len(Statuses) {
			return Statuses[i+1], true
		}
	}
	return "", false
}

// StatusIndex returns the position of a status in the lifecycle, or -1.
func StatusIndex(status string) int {
	for i, s := range Statuses {
		if s == status {
			return i
		}
	}
	return -1
}

// ValidStatus reports whether status is a valid local lifecycle value
func ValidStatus(status string) bool {
	return StatusIndex(status) >= 0
}

// Accepted payment methods
const (
	PaymentPix        = "pix"
	PaymentCreditCard = "credit_card"
)

// ValidPaymentMethod reports whether method is an accepted payment method
func ValidPaymentMethod(method string) bool {
	return method == PaymentPix || method == PaymentCreditCard
}

// NewOrder creates a new order in the initial status
func NewOrder(customerName, customerWhatsApp, customerAddress, paymentMethod string, items OrderItems, totalPrice float64) *Order {
	now := GetCurrentTime()

	return &Order{
		CustomerName:     customerName,
		CustomerWhatsApp: customerWhatsApp,
		CustomerAddress:  customerAddress,
		PaymentMethod:    paymentMethod,
		Items:            items,
		TotalPrice:       totalPrice,
		Status:           StatusReceived,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
