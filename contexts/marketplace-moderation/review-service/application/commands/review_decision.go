package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "bazaar/contexts/marketplace-moderation/review-service/application"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

// MinRejectionReasonLength is the moderation policy floor for rejection text,
// counted in runes after trimming.
const MinRejectionReasonLength = 10

type DecisionCommand struct {
	TargetType entities.TargetType
	TargetID   string
	ActorID    string
	Reason     string
}

// ReviewDecisionUseCase applies one approve/reject decision to a store or
// product, enforcing the transition table. Every status write is a
// compare-and-set on the prior status.
type ReviewDecisionUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ReviewDecisionUseCase) Approve(ctx context.Context, cmd DecisionCommand) error {
	if err := uc.validate(cmd); err != nil {
		return err
	}
	if cmd.TargetType == entities.TargetTypeStore {
		return uc.approveStore(ctx, cmd)
	}
	return uc.approveProduct(ctx, cmd)
}

func (uc ReviewDecisionUseCase) Reject(ctx context.Context, cmd DecisionCommand) error {
	if err := uc.validate(cmd); err != nil {
		return err
	}
	if err := ValidateRejectionReason(cmd.Reason); err != nil {
		return err
	}
	if cmd.TargetType == entities.TargetTypeStore {
		return uc.rejectStore(ctx, cmd)
	}
	return uc.rejectProduct(ctx, cmd)
}

// ValidateRejectionReason runs before any persistence access so a short
// reason can never mutate state.
func ValidateRejectionReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinRejectionReasonLength {
		return domainerrors.ErrRejectionReasonTooShort
	}
	return nil
}

func (uc ReviewDecisionUseCase) validate(cmd DecisionCommand) error {
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	if !cmd.TargetType.Valid() || strings.TrimSpace(cmd.TargetID) == "" {
		return domainerrors.ErrInvalidReviewInput
	}
	return nil
}

func (uc ReviewDecisionUseCase) approveStore(ctx context.Context, cmd DecisionCommand) error {
	store, err := uc.Repository.GetStore(ctx, strings.TrimSpace(cmd.TargetID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(store.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusApproved) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	store.Status = entities.ReviewStatusApproved
	store.ApprovedAt = &now
	store.UpdatedAt = now
	store.DecidedByUserID = strings.TrimSpace(cmd.ActorID)
	store.RejectionReason = ""
	if err := uc.Repository.UpdateStore(ctx, store, prior); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeStore, store.StoreID, "approve", prior, store.Status, cmd, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventStoreApproved, store.StoreID, now, map[string]any{
		"target_id": store.StoreID,
		"status":    string(store.Status),
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("store approved",
		"event", "store_approved",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"store_id", store.StoreID,
		"actor_id", store.DecidedByUserID,
	)
	return nil
}

func (uc ReviewDecisionUseCase) rejectStore(ctx context.Context, cmd DecisionCommand) error {
	store, err := uc.Repository.GetStore(ctx, strings.TrimSpace(cmd.TargetID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(store.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusRejected) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	reason := strings.TrimSpace(cmd.Reason)
	store.Status = entities.ReviewStatusRejected
	store.RejectedAt = &now
	store.UpdatedAt = now
	store.DecidedByUserID = strings.TrimSpace(cmd.ActorID)
	store.RejectionReason = reason
	if err := uc.Repository.UpdateStore(ctx, store, prior); err != nil {
		return err
	}
	if err := uc.comment(ctx, entities.TargetTypeStore, store.StoreID, reason, now); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeStore, store.StoreID, "reject", prior, store.Status, cmd, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventStoreRejected, store.StoreID, now, map[string]any{
		"target_id": store.StoreID,
		"status":    string(store.Status),
		"reason":    reason,
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("store rejected",
		"event", "store_rejected",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"store_id", store.StoreID,
		"actor_id", store.DecidedByUserID,
	)
	return nil
}

func (uc ReviewDecisionUseCase) approveProduct(ctx context.Context, cmd DecisionCommand) error {
	product, err := uc.Repository.GetProduct(ctx, strings.TrimSpace(cmd.TargetID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(product.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusApproved) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	product.Status = entities.ReviewStatusApproved
	product.ApprovedAt = &now
	product.UpdatedAt = now
	product.DecidedByUserID = strings.TrimSpace(cmd.ActorID)
	product.RejectionComment = ""
	if err := uc.Repository.UpdateProduct(ctx, product, prior); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeProduct, product.ProductID, "approve", prior, product.Status, cmd, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventProductApproved, product.ProductID, now, map[string]any{
		"target_id": product.ProductID,
		"store_id":  product.StoreID,
		"status":    string(product.Status),
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("product approved",
		"event", "product_approved",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"product_id", product.ProductID,
		"store_id", product.StoreID,
		"actor_id", product.DecidedByUserID,
	)
	return nil
}

func (uc ReviewDecisionUseCase) rejectProduct(ctx context.Context, cmd DecisionCommand) error {
	product, err := uc.Repository.GetProduct(ctx, strings.TrimSpace(cmd.TargetID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(product.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusRejected) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	reason := strings.TrimSpace(cmd.Reason)
	product.Status = entities.ReviewStatusRejected
	product.RejectedAt = &now
	product.UpdatedAt = now
	product.DecidedByUserID = strings.TrimSpace(cmd.ActorID)
	product.RejectionComment = reason
	if err := uc.Repository.UpdateProduct(ctx, product, prior); err != nil {
		return err
	}
	if err := uc.comment(ctx, entities.TargetTypeProduct, product.ProductID, reason, now); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeProduct, product.ProductID, "reject", prior, product.Status, cmd, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventProductRejected, product.ProductID, now, map[string]any{
		"target_id": product.ProductID,
		"store_id":  product.StoreID,
		"status":    string(product.Status),
		"reason":    reason,
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("product rejected",
		"event", "product_rejected",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"product_id", product.ProductID,
		"store_id", product.StoreID,
		"actor_id", product.DecidedByUserID,
	)
	return nil
}

func (uc ReviewDecisionUseCase) comment(
	ctx context.Context,
	targetType entities.TargetType,
	targetID string,
	reason string,
	now time.Time,
) error {
	commentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Repository.AddRejectionComment(ctx, entities.RejectionComment{
		CommentID:  commentID,
		TargetType: targetType,
		TargetID:   targetID,
		Comment:    reason,
		CreatedAt:  now,
	})
}

func (uc ReviewDecisionUseCase) record(
	ctx context.Context,
	targetType entities.TargetType,
	targetID string,
	action string,
	oldStatus entities.ReviewStatus,
	newStatus entities.ReviewStatus,
	cmd DecisionCommand,
	now time.Time,
) error {
	auditID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Repository.AddAudit(ctx, entities.ReviewAudit{
		AuditID:    auditID,
		TargetType: targetType,
		TargetID:   targetID,
		Action:     action,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		ActorID:    strings.TrimSpace(cmd.ActorID),
		Reason:     strings.TrimSpace(cmd.Reason),
		CreatedAt:  now,
	})
}

func (uc ReviewDecisionUseCase) notify(
	ctx context.Context,
	eventType string,
	targetID string,
	now time.Time,
	data map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newReviewEnvelope(eventID, eventType, targetID, now, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc ReviewDecisionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
