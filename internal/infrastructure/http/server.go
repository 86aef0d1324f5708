package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
	"metalprice-service/internal/infrastructure/logx"
	"metalprice-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

const (
	msgUpstreamFailed = "Failed to fetch rates from MetalPrice API"
	msgInternal       = "Internal Server Error"

	defaultHistoryLimit = 50
)

type ReadyCheck func(ctx context.Context) error

type Server struct {
	svc          *application.PriceService
	ready        []ReadyCheck
	metrics      *metrics.Collector
	staticDir    string
	historyLimit int
}

type ServerOption func(*Server)

func WithReadyCheck(c ReadyCheck) ServerOption {
	return func(s *Server) {
		if c != nil {
			s.ready = append(s.ready, c)
		}
	}
}

func WithMetrics(m *metrics.Collector) ServerOption { return func(s *Server) { s.metrics = m } }
func WithStaticDir(dir string) ServerOption { return func(s *Server) { s.staticDir = dir } }
func WithHistoryLimit(n int) ServerOption { return func(s *Server) { s.historyLimit = n } }

func NewServer(svc *application.PriceService, opts ...ServerOption) *Server {
	s := &Server{svc: svc, historyLimit: defaultHistoryLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.historyLimit <= 0 {
		s.historyLimit = defaultHistoryLimit
	}
	return s
}

type errorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

type historyItem struct {
	FetchedAt time.Time           `json:"fetchedAt"`
	Details   domain.PriceDetails `json:"details"`
}

func (s *Server) GetPriceDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.svc.GetPriceDetails(r.Context())
	if err != nil {
		var rej *domain.UpstreamRejectedError
		if errors.As(err, &rej) {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUpstreamFailed, Details: rej.Payload})
			return
		}
		logx.FromContext(r.Context()).Error("price.details_failed", zap.Error(err))
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, s.historyLimit)
	}
	items, err := s.svc.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrHistoryDisabled) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
			return
		}
		logx.FromContext(r.Context()).Error("price.history_failed", zap.Error(err))
		internalError(w)
		return
	}
	out := make([]historyItem, 0, len(items))
	for _, it := range items {
		out = append(out, historyItem{FetchedAt: it.FetchedAt.UTC(), Details: it.Details})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) checkReady(ctx context.Context) error {
	for _, c := range s.ready {
		if err := c(ctx); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
}
