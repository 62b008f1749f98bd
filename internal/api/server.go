package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mesaesabores/orders-api/internal/clients"
	"github.com/mesaesabores/orders-api/internal/config"
	"github.com/mesaesabores/orders-api/internal/database"
	"github.com/mesaesabores/orders-api/internal/repository"
	"github.com/mesaesabores/orders-api/internal/service"
	"github.com/mesaesabores/orders-api/internal/whatsapp"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

type Server struct {
	config        *config.Config
	logger        logger.Logger
	router        *mux.Router
	httpServer    *http.Server
	db            *database.Database
	orderService  *service.OrderService
	vendorService *service.VendorService
}

// NewServer creates a new API server with the given configuration and logger.
func NewServer(cfg *config.Config, logger logger.Logger) *Server {
	r := mux.NewRouter()
	db, err := database.New(cfg, logger)

	if err != nil {
		logger.Error("Failed to open local store", "error", err)
		panic(err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Error("Failed to run database migrations", "error", err)
		panic(err)
	}

	orderRepo := repository.NewOrderRepository(db, logger)

	// The remote store and notifier are optional: their absence keeps the
	// local API fully functional and only degrades the integrations.
	var remote service.RemoteStore

	if client, err := clients.NewRemoteStore(cfg.Remote, logger); err != nil {
		logger.Warn("Remote store disabled", "error", err)
	} else {
		remote = client
	}

	notifier, err := whatsapp.NewNotifier(cfg.WhatsApp.PhoneNumber)

	if err != nil {
		logger.Warn("New-order notifications disabled", "error", err)
		notifier = nil
	}

	orderService := service.NewOrderService(orderRepo, remote, notifier, cfg.StrictStatusFlow, logger)
	vendorService := service.NewVendorService(remote, logger)

	server := &Server{
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:        logger,
		config:        cfg,
		db:            db,
		orderService:  orderService,
		vendorService: vendorService,
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing database connection", "error", err)
	}

	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all the routes for our API
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	// Customer-facing order API, backed by the local store
	s.router.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/orders", s.getOrdersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/stats", s.getOrderStatsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id:[0-9]+}", s.getOrderByIDHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id:[0-9]+}/status", s.updateOrderStatusHandler).Methods(http.MethodPut)
	s.router.HandleFunc("/orders/{id:[0-9]+}/message-link", s.getOrderMessageLinkHandler).Methods(http.MethodGet)

	// Vendor API, backed only by the remote store
	s.router.HandleFunc("/vendor/orders", s.getVendorOrdersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/vendor/orders/stats", s.getVendorStatsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/vendor/orders/{id:[0-9]+}/status", s.updateVendorOrderStatusHandler).Methods(http.MethodPut)
}

// Middleware tagging each request with an id and logging its outcome
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		s.logger.With("requestID", requestID).Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
