package api

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/mesaesabores/orders-api/pkg/errors"
)

// getVendorOrdersHandler lists remote orders for the vendor panel
func (s *Server) getVendorOrdersHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	orders, err := s.vendorService.ListOrders(r.Context(), status)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders":    orders,
		"total":     len(orders),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// updateVendorOrderStatusHandler updates a remote order's status
func (s *Server) updateVendorOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := s.pathID(r)

	var req updateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	order, err := s.vendorService.UpdateStatus(r.Context(), id, req.Status)

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Status atualizado com sucesso",
		"order":   order,
	})
}

// getVendorStatsHandler aggregates the remote store in-process
func (s *Server) getVendorStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.vendorService.Stats(r.Context())

	if err != nil {
		s.respondWithError(w, apperrors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stats":        stats.Stats,
		"total_orders": stats.TotalOrders,
		"today_orders": stats.TodayOrders,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
