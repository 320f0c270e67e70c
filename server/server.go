// Package server exposes a budget.Book as a JSON HTTP API.
//
// Every successful mutation saves the snapshot of the book to the store
// before answering. Errors are answered as {"error": "..."} with status 422
// for invalid input, 409 when the savings pool cannot cover a request and
// 404 for unknown records.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server serves the API of one book.
type Server struct {
	book    *budget.Book
	store   storage.Store
	log     *zap.Logger
	metrics http.Handler

	// saveMu serializes mutations with the save that follows them, so that
	// snapshots reach the store in order.
	saveMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and persistence logger.
func WithLogger(log *zap.Logger) Option { return func(s *Server) { s.log = log } }

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// New returns a server for book, persisting into store.
func New(book *budget.Book, store storage.Store, opts ...Option) *Server {
	s := &Server{book: book, store: store, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router of the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/balance", s.handleBalance)
	r.Post("/deposit", s.handleDeposit)

	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", s.handleListIncomes)
		r.Post("/", s.handleRecordIncome)
		r.Delete("/{id}", s.handleRemoveIncome)
	})
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleRecordExpense)
		r.Delete("/{id}", s.handleRemoveExpense)
	})
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.handleListGoals)
		r.Post("/", s.handleCreateGoal)
		r.Get("/{id}", s.handleGetGoal)
		r.Patch("/{id}", s.handleUpdateGoal)
		r.Delete("/{id}", s.handleDeleteGoal)
	})

	r.Get("/overview", s.handleOverview)
	r.Get("/growth", s.handleGrowth)
	r.Get("/monthly", s.handleMonthly)
	r.Get("/split", s.handleSplit)
	r.Get("/report", s.handleReport)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

// ListenAndServe serves the API on addr until ctx is done, then shuts the
// server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

// mutate runs a book command and, when it succeeds, saves the snapshot. When
// the save fails the book is restored to its state before the command.
func (s *Server) mutate(ctx context.Context, command func() error) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	before := s.book.Snapshot()
	if err := command(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.book.Snapshot()); err != nil {
		s.log.Error("could not save the book", zap.Error(err))
		if rerr := s.book.Restore(before); rerr != nil {
			s.log.Error("could not restore the book", zap.Error(rerr))
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("saving: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// errBadRequest marks request bodies that are not valid JSON.
var errBadRequest = errors.New("bad request")

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, budget.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, budget.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, budget.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

// decode reads the JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
