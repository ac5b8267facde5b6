package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	application "bazaar/contexts/marketplace-moderation/review-service/application"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

type ResubmitStoreCommand struct {
	StoreID string
	ActorID string
	Fields  entities.StoreFields
}

type ResubmitProductCommand struct {
	ProductID string
	ActorID   string
	Fields    entities.ProductFields
}

// ResubmissionUseCase reopens a rejected store or product: replacement fields
// are persisted, the status returns to pending, and the active rejection text
// is cleared. Prior comments stay in the rejection comment log for audit.
type ResubmissionUseCase struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ResubmissionUseCase) ResubmitStore(ctx context.Context, cmd ResubmitStoreCommand) error {
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	if strings.TrimSpace(cmd.StoreID) == "" {
		return domainerrors.ErrInvalidReviewInput
	}
	if err := validateStoreFields(cmd.Fields); err != nil {
		return err
	}

	store, err := uc.Repository.GetStore(ctx, strings.TrimSpace(cmd.StoreID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(store.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusPending) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	store.ApplyFields(cmd.Fields)
	store.Status = entities.ReviewStatusPending
	store.RejectionReason = ""
	store.ResubmittedAt = &now
	store.UpdatedAt = now
	if err := uc.Repository.UpdateStore(ctx, store, prior); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeStore, store.StoreID, prior, cmd.ActorID, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventStoreResubmitted, store.StoreID, now, map[string]any{
		"target_id": store.StoreID,
		"status":    string(store.Status),
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("store resubmitted",
		"event", "store_resubmitted",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"store_id", store.StoreID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}

func (uc ResubmissionUseCase) ResubmitProduct(ctx context.Context, cmd ResubmitProductCommand) error {
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	if strings.TrimSpace(cmd.ProductID) == "" {
		return domainerrors.ErrInvalidReviewInput
	}
	if err := validateProductFields(cmd.Fields); err != nil {
		return err
	}

	product, err := uc.Repository.GetProduct(ctx, strings.TrimSpace(cmd.ProductID))
	if err != nil {
		return err
	}
	prior := entities.NormalizeStatus(string(product.Status))
	if !entities.CanTransition(prior, entities.ReviewStatusPending) {
		return domainerrors.ErrInvalidStatusTransition
	}

	now := uc.now()
	product.ApplyFields(cmd.Fields)
	product.Status = entities.ReviewStatusPending
	product.RejectionComment = ""
	product.ResubmittedAt = &now
	product.UpdatedAt = now
	if err := uc.Repository.UpdateProduct(ctx, product, prior); err != nil {
		return err
	}
	if err := uc.record(ctx, entities.TargetTypeProduct, product.ProductID, prior, cmd.ActorID, now); err != nil {
		return err
	}
	if err := uc.notify(ctx, EventProductResubmitted, product.ProductID, now, map[string]any{
		"target_id": product.ProductID,
		"store_id":  product.StoreID,
		"status":    string(product.Status),
	}); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("product resubmitted",
		"event", "product_resubmitted",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"product_id", product.ProductID,
		"store_id", product.StoreID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}

func validateStoreFields(fields entities.StoreFields) error {
	err := validation.ValidateStruct(&fields,
		validation.Field(&fields.Name, validation.Required),
		validation.Field(&fields.OwnerName, validation.Required),
		validation.Field(&fields.Address, validation.Required),
		validation.Field(&fields.ContactEmail, validation.Required, is.Email),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrInvalidReviewInput, err)
	}
	return nil
}

func validateProductFields(fields entities.ProductFields) error {
	err := validation.ValidateStruct(&fields,
		validation.Field(&fields.Name, validation.Required),
		validation.Field(&fields.Description, validation.Required),
		validation.Field(&fields.Category, validation.Required),
		validation.Field(&fields.Price, validation.Required, validation.Min(0.01)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrInvalidReviewInput, err)
	}
	return nil
}

func (uc ResubmissionUseCase) record(
	ctx context.Context,
	targetType entities.TargetType,
	targetID string,
	oldStatus entities.ReviewStatus,
	actorID string,
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
		Action:     "resubmit",
		OldStatus:  oldStatus,
		NewStatus:  entities.ReviewStatusPending,
		ActorID:    strings.TrimSpace(actorID),
		CreatedAt:  now,
	})
}

func (uc ResubmissionUseCase) notify(
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

func (uc ResubmissionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
