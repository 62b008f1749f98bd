package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mesaesabores/orders-api/internal/models"
	"github.com/mesaesabores/orders-api/internal/service"
	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
)

// Health represents the health check response
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// healthCheckHandler handles the health check endpoint
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:    "ok",
		Version:   "0.1.0",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if err := s.db.Ping(r.Context()); err != nil {
		health.Status = "degraded"
		s.respondWithJSON(w, http.StatusServiceUnavailable, health)
		return
	}

	s.respondWithJSON(w, http.StatusOK, health)
}

type createOrderRequest struct {
	CustomerName     string            `json:"customer_name"`
	CustomerWhatsApp string            `json:"customer_whatsapp"`
	CustomerAddress  string            `json:"customer_address"`
	PaymentMethod    string            `json:"payment_method"`
	Items            models.OrderItems `json:"items"`
	TotalPrice       *float64          `json:"total_price"`
}

type createOrderResponse struct {
	Message             string        `json:"message"`
	Order               *models.Order `json:"order"`
	RemoteOrderID       *int64        `json:"remote_order_id,omitempty"`
	MessageLink         string        `json:"message_link,omitempty"`
	RemoteMirrorSuccess bool          `json:"remote_mirror_success"`
	RemoteError         string        `json:"remote_error,omitempty"`
}

// createOrderHandler creates a new order. The local write decides the HTTP
// outcome; the remote mirror only shows up as response metadata.
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := s.orderService.CreateOrder(r.Context(), service.CreateOrderInput{
		CustomerName:     req.CustomerName,
		CustomerWhatsApp: req.CustomerWhatsApp,
		CustomerAddress:  req.CustomerAddress,
		PaymentMethod:    req.PaymentMethod,
		Items:            req.Items,
		TotalPrice:       req.TotalPrice,
	})

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	message := "Pedido criado com sucesso"

	if !result.MirrorSuccess {
		message = "Pedido criado localmente, mas falha na integração com o armazenamento remoto"
	}

	s.respondWithJSON(w, http.StatusCreated, createOrderResponse{
		Message:             message,
		Order:               result.Order,
		RemoteOrderID:       result.RemoteOrderID,
		MessageLink:         result.MessageLink,
		RemoteMirrorSuccess: result.MirrorSuccess,
		RemoteError:         result.MirrorError,
	})
}

// getOrdersHandler lists orders with optional status and date filters
func (s *Server) getOrdersHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	date := r.URL.Query().Get("date")

	orders, err := s.orderService.ListOrders(r.Context(), status, date)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
	})
}

// getOrderByIDHandler returns a single order
func (s *Server) getOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := s.pathID(r)

	order, err := s.orderService.GetOrder(r.Context(), id)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatusHandler sets an order's status
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := s.pathID(r)

	var req updateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	order, err := s.orderService.UpdateStatus(r.Context(), id, req.Status)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Status atualizado com sucesso",
		"order":   order,
	})
}

// getOrderMessageLinkHandler renders the customer notification link for the
// order's current status
func (s *Server) getOrderMessageLinkHandler(w http.ResponseWriter, r *http.Request) {
	id := s.pathID(r)

	link, err := s.orderService.StatusLink(r.Context(), id)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        link.Message,
		"link":           link.Link,
		"recipient":      link.Recipient,
		"status":         link.Status,
		"status_display": link.StatusDisplay,
	})
}

// getOrderStatsHandler aggregates the local store
func (s *Server) getOrderStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.orderService.Stats(r.Context())

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, stats)
}

// pathID extracts the numeric id path variable. Routes constrain it to
// digits, so parsing cannot fail for matched requests.
func (s *Server) pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// respondWithError sends a JSON response with an error message
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)

	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
