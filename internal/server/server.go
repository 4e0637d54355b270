// Package server exposes the booking application over HTTP/JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/tournevent/orders/internal/booking"
	"github.com/tournevent/orders/pkg/carrier"
)

// BookingService is the application surface the server fronts.
// Satisfied by *booking.Service.
type BookingService interface {
	BookOrder(ctx context.Context, input booking.OrderInput) (*booking.BookingResult, error)
	CheckoutOptions(ctx context.Context, input booking.CheckoutInput) ([]booking.QuoteOption, error)
}

// Server is the HTTP server for the orders service. Request metrics are
// recorded by the booking service itself; the server only exposes them.
type Server struct {
	port    int
	booking BookingService
	logger  *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, svc BookingService, logger *otelzap.Logger) *Server {
	return &Server{
		port:    cfg.Port,
		booking: svc,
		logger:  logger,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Booking API
	mux.HandleFunc("/api/v1/orders", s.handleBookOrder)
	mux.HandleFunc("/api/v1/checkout/options", s.handleCheckoutOptions)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleBookOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var req bookOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.booking.BookOrder(r.Context(), input)
	if err != nil {
		s.logger.Ctx(r.Context()).Warn("Booking failed",
			zap.String("customer", input.CustomerName),
			zap.Error(err),
		)
		writeError(w, statusFromError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, bookOrderResponseFrom(result))
}

func (s *Server) handleCheckoutOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	options, err := s.booking.CheckoutOptions(r.Context(), input)
	if err != nil {
		s.logger.Ctx(r.Context()).Warn("Checkout quoting failed", zap.Error(err))
		writeError(w, statusFromError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponseFrom(options))
}

// statusFromError maps application sentinels onto HTTP status codes. Unknown
// errors stay 500 so carrier detail never leaks as a client fault.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, carrier.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrWarehouseNotFound):
		return http.StatusNotFound
	case errors.Is(err, carrier.ErrNoQuotesAvailable),
		errors.Is(err, booking.ErrNoShippingOptions):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
