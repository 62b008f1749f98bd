// Package whatsapp builds wa.me deep links that open a chat pre-filled
// with a notification text. Nothing here performs network I/O; delivery is
// up to whoever opens the link.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mesaesabores/orders-api/internal/models"
)

const baseURL = "https://wa.me/"

// StatusMessage renders the customer-facing notification text for an
// order's current status. Statuses without a canned template fall back to a
// generic update line.
func StatusMessage(order *models.Order) string {
	switch order.Status {
	case models.StatusReceived:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n✅ Seu pedido foi recebido com sucesso!\n\n📋 *Pedido #%d*\n💰 Total: R$ %.2f\n\nEm breve entraremos em contato para confirmar o pagamento.\n\nObrigado pela preferência! 😊",
			order.CustomerName, order.ID, order.TotalPrice)
	case models.StatusPaid:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n💳 Pagamento confirmado!\n\n📋 *Pedido #%d*\n✅ Seu pedido já está sendo preparado com muito carinho.\n\nTempo estimado: 30-45 minutos\n\nObrigado! 😊",
			order.CustomerName, order.ID)
	case models.StatusPreparing:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n👨‍🍳 Seu pedido está sendo preparado!\n\n📋 *Pedido #%d*\n🔥 Nossa equipe está caprichando no seu prato.\n\nTempo estimado: 20-30 minutos\n\nAguarde, está ficando delicioso! 😋",
			order.CustomerName, order.ID)
	case models.StatusReady:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n🎉 Seu pedido está pronto!\n\n📋 *Pedido #%d*\n📍 Endereço: %s\n\nNosso entregador sairá em breve para levar seu pedido quentinho! 🚗\n\nObrigado pela paciência! 😊",
			order.CustomerName, order.ID, order.CustomerAddress)
	case models.StatusDelivering:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n🚗 Seu pedido saiu para entrega!\n\n📋 *Pedido #%d*\n📍 Destino: %s\n\nNosso entregador está a caminho. Tempo estimado: 15-20 minutos.\n\nPrepare-se para saborear! 😋",
			order.CustomerName, order.ID, order.CustomerAddress)
	case models.StatusDelivered:
		return fmt.Sprintf("🍽️ *Mesa e Sabores*\n\nOlá %s!\n\n✅ Pedido entregue com sucesso!\n\n📋 *Pedido #%d*\n\nEsperamos que tenha gostado da sua refeição! 😋\n\nSua opinião é muito importante para nós. Avalie nosso atendimento!\n\nObrigado pela preferência! ❤️",
			order.CustomerName, order.ID)
	default:
		return fmt.Sprintf("Atualização do pedido #%d: %s", order.ID, models.StatusDisplay(order.Status))
	}
}

// StatusLink renders the status notification and returns it with the wa.me
// link addressed to the order's customer.
func StatusLink(order *models.Order) (message, link string) {
	message = StatusMessage(order)
	return message, Link(order.CustomerWhatsApp, message)
}

// Link builds a wa.me deep link for a recipient with a percent-encoded
// pre-filled text.
func Link(phone, message string) string {
	return baseURL + phone + "?text=" + encode(message)
}

// encode percent-encodes for a query value; wa.me decodes %20, not '+'
func encode(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// OrderSummary is the snapshot rendered into the new-order notification
type OrderSummary struct {
	ID          int64
	Items       models.OrderItems
	TotalAmount float64
	Status      string
	OrderDate   string
}

// Notifier formats new-order notifications for the restaurant's own number
type Notifier struct {
	phoneNumber string
}

// NewNotifier creates a Notifier. It fails fast when the recipient number
// is absent.
func NewNotifier(phone string) (*Notifier, error) {
	if phone == "" {
		return nil, fmt.Errorf("WHATSAPP_PHONE_NUMBER must be set")
	}

	return &Notifier{phoneNumber: phone}, nil
}

// NewOrderMessage renders the order summary sent to the restaurant when a
// new order arrives.
func (n *Notifier) NewOrderMessage(summary OrderSummary) string {
	var items strings.Builder

	for _, item := range summary.Items {
		items.WriteString(fmt.Sprintf("• %s - Qtd: %d - R$ %.2f\n", item.Name, item.Quantity, item.Price))
	}

	return fmt.Sprintf(`🍽️ *NOVO PEDIDO - Mesa e Sabores*

📋 *Pedido ID:* %d
📅 *Data:* %s

🛒 *Itens do Pedido:*
%s
💰 *Total:* R$ %.2f

📱 *Status:* %s

---
Mesa e Sabores - Sistema de Pedidos`,
		summary.ID, summary.OrderDate, items.String(), summary.TotalAmount, summary.Status)
}

// NewOrderLink returns the wa.me link carrying the new-order notification
func (n *Notifier) NewOrderLink(summary OrderSummary) string {
	return Link(n.phoneNumber, n.NewOrderMessage(summary))
}

// Recipient returns the configured notification number
func (n *Notifier) Recipient() string {
	return n.phoneNumber
}
