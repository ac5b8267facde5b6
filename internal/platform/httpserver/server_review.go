package httpserver

import (
	"errors"
	"net/http"
	"strings"

	reviewerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	reviewhttp "bazaar/contexts/marketplace-moderation/review-service/transport/http"
)

func writeReviewError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reviewhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeReviewDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewerrors.ErrStoreNotFound):
		writeReviewError(w, http.StatusNotFound, "store_not_found", err.Error())
	case errors.Is(err, reviewerrors.ErrProductNotFound):
		writeReviewError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, reviewerrors.ErrRejectionReasonTooShort):
		writeReviewError(w, http.StatusUnprocessableEntity, "rejection_reason_too_short", err.Error())
	case errors.Is(err, reviewerrors.ErrInvalidStatusTransition):
		writeReviewError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, reviewerrors.ErrStatusConflict):
		writeReviewError(w, http.StatusConflict, "status_conflict", err.Error())
	case errors.Is(err, reviewerrors.ErrIdempotencyKeyRequired):
		writeReviewError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, reviewerrors.ErrIdempotencyKeyConflict):
		writeReviewError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, reviewerrors.ErrUnauthorizedActor):
		writeReviewError(w, http.StatusUnauthorized, "unauthorized_actor", err.Error())
	case errors.Is(err, reviewerrors.ErrInvalidReviewInput):
		writeReviewError(w, http.StatusBadRequest, "invalid_review_input", err.Error())
	default:
		writeReviewError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireReviewAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeReviewError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireReviewRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeReviewError(w, http.StatusBadRequest, "request_id_required", "X-Request-Id header is required")
		return false
	}
	return true
}

func requireReviewActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeReviewError(w, http.StatusUnauthorized, "user_required", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func requireReviewIdempotency(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		writeReviewError(w, http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header is required")
		return "", false
	}
	return key, true
}

func (s *Server) handleReviewListStores(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	if _, ok := requireReviewActor(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.ListStoresHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewGetStore(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	if _, ok := requireReviewActor(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.GetStoreHandler(r.Context(), r.PathValue("store_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewListStoreProducts(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	if _, ok := requireReviewActor(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.ListStoreProductsHandler(
		r.Context(),
		r.PathValue("store_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewStoreComments(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	if _, ok := requireReviewActor(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.StoreCommentsHandler(r.Context(), r.PathValue("store_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewQueueSummary(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	if _, ok := requireReviewActor(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.QueueSummaryHandler(r.Context())
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewApproveStore(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ApproveStoreHandler(r.Context(), actorID, r.PathValue("store_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewRejectStore(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	var req reviewhttp.RejectRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.RejectStoreHandler(r.Context(), actorID, r.PathValue("store_id"), req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewApproveProduct(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.ApproveProductHandler(r.Context(), actorID, r.PathValue("product_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewRejectProduct(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	var req reviewhttp.RejectRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.RejectProductHandler(r.Context(), actorID, r.PathValue("product_id"), req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewCombinedDecision(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	idempotencyKey, ok := requireReviewIdempotency(w, r)
	if !ok {
		return
	}
	var req reviewhttp.CombinedDecisionRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.CombinedDecisionHandler(
		r.Context(),
		idempotencyKey,
		actorID,
		r.PathValue("store_id"),
		req,
	)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewBulkOperation(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	idempotencyKey, ok := requireReviewIdempotency(w, r)
	if !ok {
		return
	}
	var req reviewhttp.BulkOperationRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.BulkOperationHandler(r.Context(), idempotencyKey, actorID, req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewResubmitStore(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	var req reviewhttp.ResubmitStoreRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.ResubmitStoreHandler(r.Context(), actorID, r.PathValue("store_id"), req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewResubmitProduct(w http.ResponseWriter, r *http.Request) {
	if !requireReviewAuthorization(w, r) || !requireReviewRequestID(w, r) {
		return
	}
	actorID, ok := requireReviewActor(w, r)
	if !ok {
		return
	}
	var req reviewhttp.ResubmitProductRequest
	if !s.decodeJSON(w, r, &req, writeReviewError) {
		return
	}
	resp, err := s.review.Handler.ResubmitProductHandler(r.Context(), actorID, r.PathValue("product_id"), req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
