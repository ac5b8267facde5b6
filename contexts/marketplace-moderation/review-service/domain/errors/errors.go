package errors

import "errors"

var (
	ErrStoreNotFound           = errors.New("store submission not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrInvalidReviewInput      = errors.New("invalid review input")
	ErrRejectionReasonTooShort = errors.New("rejection reason is too short")
	ErrInvalidStatusTransition = errors.New("invalid review status transition")
	ErrStatusConflict          = errors.New("review status changed concurrently")
	ErrUnauthorizedActor       = errors.New("actor is not authorized")
	ErrIdempotencyKeyRequired  = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict  = errors.New("idempotency key conflict")
)
