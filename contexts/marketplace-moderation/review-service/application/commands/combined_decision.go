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

// CascadeRejectionReason is recorded when the cascade rule overrides a
// requested store approval.
const CascadeRejectionReason = "rejected automatically: all products in the review batch were rejected"

type ProductDecisionInput struct {
	ProductID string
	Decision  entities.Decision
	Comment   string
}

type CombinedDecisionCommand struct {
	IdempotencyKey string
	ActorID        string
	StoreID        string
	StoreDecision  entities.Decision
	StoreReason    string
	Products       []ProductDecisionInput
}

type CombinedDecisionResult struct {
	Store           ItemResult   `json:"store"`
	Products        []ItemResult `json:"products"`
	CascadeOverride bool         `json:"cascade_override"`
	Attempted       int          `json:"attempted"`
	Succeeded       int          `json:"succeeded"`
	Failed          int          `json:"failed"`
}

// CombinedDecisionUseCase decides a store together with its pending products
// in one call. Product decisions are applied first and independently; the
// cascade rule then forces the store to rejected when every listed product
// decision was a reject.
type CombinedDecisionUseCase struct {
	Review         ReviewDecisionUseCase
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc CombinedDecisionUseCase) Execute(ctx context.Context, cmd CombinedDecisionCommand) (CombinedDecisionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CombinedDecisionResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.ActorID) == "" {
		return CombinedDecisionResult{}, domainerrors.ErrUnauthorizedActor
	}
	if strings.TrimSpace(cmd.StoreID) == "" || !cmd.StoreDecision.Valid() {
		return CombinedDecisionResult{}, domainerrors.ErrInvalidReviewInput
	}
	for _, item := range cmd.Products {
		if strings.TrimSpace(item.ProductID) == "" || !item.Decision.Valid() {
			return CombinedDecisionResult{}, domainerrors.ErrInvalidReviewInput
		}
	}
	if cmd.StoreDecision == entities.DecisionReject {
		if err := ValidateRejectionReason(cmd.StoreReason); err != nil {
			return CombinedDecisionResult{}, err
		}
	}

	now := uc.now()
	requestHash := hashCombinedDecisionCommand(cmd)
	if uc.Idempotency != nil {
		record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now)
		if err != nil {
			return CombinedDecisionResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return CombinedDecisionResult{}, domainerrors.ErrIdempotencyKeyConflict
			}
			var replayed CombinedDecisionResult
			if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
				return CombinedDecisionResult{}, err
			}
			return replayed, nil
		}
	}

	result := CombinedDecisionResult{
		Products: make([]ItemResult, 0, len(cmd.Products)),
	}
	for _, item := range cmd.Products {
		var opErr error
		decision := DecisionCommand{
			TargetType: entities.TargetTypeProduct,
			TargetID:   item.ProductID,
			ActorID:    cmd.ActorID,
			Reason:     item.Comment,
		}
		switch item.Decision {
		case entities.DecisionApprove:
			opErr = uc.Review.Approve(ctx, decision)
		case entities.DecisionReject:
			opErr = uc.Review.Reject(ctx, decision)
		}
		result.Products = append(result.Products, itemResult(item.ProductID, opErr))
	}

	storeDecision := cmd.StoreDecision
	storeReason := cmd.StoreReason
	if storeDecision == entities.DecisionApprove && allRejects(cmd.Products) {
		// A store cannot go live with zero viable products.
		storeDecision = entities.DecisionReject
		storeReason = CascadeRejectionReason
		result.CascadeOverride = true
	}

	storeCmd := DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   cmd.StoreID,
		ActorID:    cmd.ActorID,
		Reason:     storeReason,
	}
	var storeErr error
	switch storeDecision {
	case entities.DecisionApprove:
		storeErr = uc.Review.Approve(ctx, storeCmd)
	case entities.DecisionReject:
		storeErr = uc.Review.Reject(ctx, storeCmd)
	}
	result.Store = itemResult(cmd.StoreID, storeErr)

	result.Attempted = len(result.Products) + 1
	for _, item := range append(result.Products, result.Store) {
		if item.Outcome == OutcomeSuccess {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	if uc.Idempotency != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return CombinedDecisionResult{}, err
		}
		if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
			Key:             cmd.IdempotencyKey,
			RequestHash:     requestHash,
			ResponsePayload: payload,
			ExpiresAt:       now.Add(uc.resolveIdempotencyTTL()),
		}); err != nil {
			return CombinedDecisionResult{}, err
		}
	}

	logger.Info("combined store decision completed",
		"event", "review_combined_decision_completed",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"store_id", cmd.StoreID,
		"store_outcome", string(result.Store.Outcome),
		"cascade_override", result.CascadeOverride,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func allRejects(items []ProductDecisionInput) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Decision != entities.DecisionReject {
			return false
		}
	}
	return true
}

func (uc CombinedDecisionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc CombinedDecisionUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func hashCombinedDecisionCommand(cmd CombinedDecisionCommand) string {
	products := make([]map[string]string, 0, len(cmd.Products))
	for _, item := range cmd.Products {
		products = append(products, map[string]string{
			"product_id": strings.TrimSpace(item.ProductID),
			"decision":   string(item.Decision),
			"comment":    strings.TrimSpace(item.Comment),
		})
	}
	payload := map[string]any{
		"actor_id":       strings.TrimSpace(cmd.ActorID),
		"store_id":       strings.TrimSpace(cmd.StoreID),
		"store_decision": string(cmd.StoreDecision),
		"store_reason":   strings.TrimSpace(cmd.StoreReason),
		"products":       products,
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
