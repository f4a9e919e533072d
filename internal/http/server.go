// Package http exposes the cash book as a JSON API. Handlers translate
// requests into Book service calls and ledger errors into status codes;
// nothing but plain data structures crosses this boundary.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cashbook/internal/log"
	"cashbook/internal/services"
)

type Server struct {
	*http.Server

	book    *services.Book
	logger  *log.Logger
	limiter *rateLimiter
	uptime  time.Time
}

// NewServer wires the API routes and returns a server ready to listen.
func NewServer(addr string, book *services.Book, logger *log.Logger) *Server {
	s := &Server{
		book:    book,
		logger:  logger.WithComponent(log.ComponentHTTP),
		limiter: newRateLimiter(),
		uptime:  time.Now(),
	}

	r := mux.NewRouter()
	r.Use(log.RequestLogger(s.logger))
	r.Use(s.limiter.middleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/entries", s.handleListEntries).Methods(http.MethodGet)
	api.HandleFunc("/entries", s.handleCreateEntry).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id}", s.handleUpdateEntry).Methods(http.MethodPut)
	api.HandleFunc("/entries/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)

	api.HandleFunc("/loans-given", s.handleListLoansGiven).Methods(http.MethodGet)
	api.HandleFunc("/loans-given", s.handleCreateLoanGiven).Methods(http.MethodPost)
	api.HandleFunc("/loans-given/{id}", s.handleUpdateLoanGiven).Methods(http.MethodPut)
	api.HandleFunc("/loans-given/{id}", s.handleDeleteLoanGiven).Methods(http.MethodDelete)
	api.HandleFunc("/loans-given/{id}/payments", s.handleListLoanPayments).Methods(http.MethodGet)
	api.HandleFunc("/loans-given/{id}/payments", s.handleRecordLoanPayment).Methods(http.MethodPost)

	api.HandleFunc("/loans-to-pay", s.handleListLoansToPay).Methods(http.MethodGet)
	api.HandleFunc("/loans-to-pay", s.handleCreateLoanToPay).Methods(http.MethodPost)
	api.HandleFunc("/loans-to-pay/{id}", s.handleDeleteLoanToPay).Methods(http.MethodDelete)
	api.HandleFunc("/loans-to-pay/{id}/payments", s.handleListPrincipalPayments).Methods(http.MethodGet)
	api.HandleFunc("/loans-to-pay/{id}/payments", s.handleRecordPrincipalPayment).Methods(http.MethodPost)

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Close stops the rate limiter bookkeeping goroutine.
func (s *Server) Close() {
	s.limiter.close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.uptime).String(),
	})
}
