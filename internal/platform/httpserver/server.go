package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	reviewservice "bazaar/contexts/marketplace-moderation/review-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "bazaar/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	metrics *Metrics
	review  reviewservice.Module
}

func New(review reviewservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		metrics: NewMetrics(),
		review:  review,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler exposes the routed mux wrapped with request metrics, for tests and
// for callers that manage the listener themselves.
func (s *Server) Handler() http.Handler {
	return s.metrics.Instrument(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/review/stores", s.handleReviewListStores)
	s.mux.HandleFunc("GET /api/review/stores/{store_id}", s.handleReviewGetStore)
	s.mux.HandleFunc("GET /api/review/stores/{store_id}/products", s.handleReviewListStoreProducts)
	s.mux.HandleFunc("GET /api/review/stores/{store_id}/comments", s.handleReviewStoreComments)
	s.mux.HandleFunc("GET /api/review/queue/summary", s.handleReviewQueueSummary)

	s.mux.HandleFunc("POST /api/review/stores/{store_id}/approve", s.handleReviewApproveStore)
	s.mux.HandleFunc("POST /api/review/stores/{store_id}/reject", s.handleReviewRejectStore)
	s.mux.HandleFunc("POST /api/review/stores/{store_id}/decision", s.handleReviewCombinedDecision)
	s.mux.HandleFunc("POST /api/review/stores/{store_id}/resubmit", s.handleReviewResubmitStore)
	s.mux.HandleFunc("POST /api/review/products/{product_id}/approve", s.handleReviewApproveProduct)
	s.mux.HandleFunc("POST /api/review/products/{product_id}/reject", s.handleReviewRejectProduct)
	s.mux.HandleFunc("POST /api/review/products/{product_id}/resubmit", s.handleReviewResubmitProduct)
	s.mux.HandleFunc("POST /api/review/bulk", s.handleReviewBulkOperation)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	target any,
	writeError func(w http.ResponseWriter, status int, code string, message string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}
