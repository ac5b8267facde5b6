package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "bazaar/contexts/marketplace-moderation/review-service/application"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

const (
	BulkOperationApprove = "bulk_approve"
	BulkOperationReject  = "bulk_reject"
)

// BulkOperationCommand carries the administrator's checked ids as a
// Selection value object, so blank entries and repeats are already folded
// away by the time the processor runs.
type BulkOperationCommand struct {
	IdempotencyKey string
	ActorID        string
	TargetType     entities.TargetType
	OperationType  string
	Selection      entities.Selection
	Reason         string
}

type BulkOperationResult struct {
	Processed      int          `json:"processed"`
	SucceededCount int          `json:"succeeded_count"`
	FailedCount    int          `json:"failed_count"`
	Items          []ItemResult `json:"items"`
}

// BulkOperationUseCase applies one uniform decision across an explicit
// same-kind id set. Items are processed independently, best-effort: one
// failure never rolls back or blocks the rest.
type BulkOperationUseCase struct {
	Repository     ports.Repository
	Review         ReviewDecisionUseCase
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc BulkOperationUseCase) Execute(ctx context.Context, cmd BulkOperationCommand) (BulkOperationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return BulkOperationResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return BulkOperationResult{}, domainerrors.ErrUnauthorizedActor
	}
	operationType := strings.TrimSpace(cmd.OperationType)
	if operationType != BulkOperationApprove && operationType != BulkOperationReject {
		return BulkOperationResult{}, domainerrors.ErrInvalidReviewInput
	}
	if !cmd.TargetType.Valid() || cmd.Selection.Len() == 0 {
		return BulkOperationResult{}, domainerrors.ErrInvalidReviewInput
	}
	// The shared reason is validated once, before any item is dispatched.
	if operationType == BulkOperationReject {
		if err := ValidateRejectionReason(cmd.Reason); err != nil {
			return BulkOperationResult{}, err
		}
	}

	now := uc.now()
	requestHash := hashBulkOperationCommand(cmd)
	if uc.Idempotency != nil {
		record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now)
		if err != nil {
			return BulkOperationResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return BulkOperationResult{}, domainerrors.ErrIdempotencyKeyConflict
			}
			var replayed BulkOperationResult
			if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
				return BulkOperationResult{}, err
			}
			return replayed, nil
		}
	}

	targetIDs := cmd.Selection.IDs()
	result := BulkOperationResult{
		Items: make([]ItemResult, 0, len(targetIDs)),
	}
	for _, targetID := range targetIDs {
		decision := DecisionCommand{
			TargetType: cmd.TargetType,
			TargetID:   targetID,
			ActorID:    cmd.ActorID,
			Reason:     strings.TrimSpace(cmd.Reason),
		}
		var opErr error
		switch operationType {
		case BulkOperationApprove:
			opErr = uc.Review.Approve(ctx, decision)
		case BulkOperationReject:
			opErr = uc.Review.Reject(ctx, decision)
		}
		result.Processed++
		if opErr != nil {
			result.FailedCount++
		} else {
			result.SucceededCount++
		}
		result.Items = append(result.Items, itemResult(targetID, opErr))
	}

	operationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return BulkOperationResult{}, err
	}
	if err := uc.Repository.AddBulkOperation(ctx, entities.BulkReviewOperation{
		OperationID:       operationID,
		TargetType:        cmd.TargetType,
		OperationType:     operationType,
		TargetIDs:         cmd.Selection.IDs(),
		PerformedByUserID: strings.TrimSpace(cmd.ActorID),
		SucceededCount:    result.SucceededCount,
		FailedCount:       result.FailedCount,
		Reason:            strings.TrimSpace(cmd.Reason),
		CreatedAt:         now,
	}); err != nil {
		return BulkOperationResult{}, err
	}

	if uc.Idempotency != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return BulkOperationResult{}, err
		}
		if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
			Key:             cmd.IdempotencyKey,
			RequestHash:     requestHash,
			ResponsePayload: payload,
			ExpiresAt:       now.Add(uc.resolveIdempotencyTTL()),
		}); err != nil {
			return BulkOperationResult{}, err
		}
	}

	logger.Info("review bulk operation completed",
		"event", "review_bulk_operation_completed",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"operation_type", operationType,
		"target_type", string(cmd.TargetType),
		"processed", result.Processed,
		"succeeded_count", result.SucceededCount,
		"failed_count", result.FailedCount,
	)
	return result, nil
}

func (uc BulkOperationUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc BulkOperationUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func hashBulkOperationCommand(cmd BulkOperationCommand) string {
	payload := map[string]any{
		"actor_id":       strings.TrimSpace(cmd.ActorID),
		"target_type":    string(cmd.TargetType),
		"operation_type": strings.TrimSpace(cmd.OperationType),
		"target_ids":     cmd.Selection.IDs(),
		"reason":         strings.TrimSpace(cmd.Reason),
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
