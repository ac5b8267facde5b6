package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaar/contexts/marketplace-moderation/review-service/adapters/memory"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
)

func seedStore(status entities.ReviewStatus) entities.StoreSubmission {
	return entities.StoreSubmission{
		StoreID:      "store-1",
		Name:         "Vinyl Basement",
		OwnerName:    "Iris Kask",
		Address:      "12 Harbour Lane",
		ContactEmail: "iris@vinylbasement.example",
		Status:       status,
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func seedProduct(status entities.ReviewStatus) entities.Product {
	return entities.Product{
		ProductID:   "product-1",
		StoreID:     "store-1",
		Name:        "Blue Train LP",
		Description: "1957 pressing, sleeve near mint",
		Category:    "vinyl",
		Price:       64.50,
		Status:      status,
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newDecisionUseCase(store *memory.Store) ReviewDecisionUseCase {
	return ReviewDecisionUseCase{
		Repository: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}
}

func TestApproveStoreRecordsAuditAndOutbox(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newDecisionUseCase(store)

	err := uc.Approve(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-1",
		ActorID:    "admin-1",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusApproved {
		t.Fatalf("expected approved status, got %q", updated.Status)
	}
	if updated.ApprovedAt == nil {
		t.Fatalf("expected approved_at to be set")
	}
	if updated.DecidedByUserID != "admin-1" {
		t.Fatalf("expected decided_by admin-1, got %q", updated.DecidedByUserID)
	}

	audits := store.Audits()
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audits))
	}
	if audits[0].Action != "approve" || audits[0].OldStatus != entities.ReviewStatusPending {
		t.Fatalf("unexpected audit row: %+v", audits[0])
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox message, got %d", len(pending))
	}
	if pending[0].EventType != EventStoreApproved {
		t.Fatalf("expected event %q, got %q", EventStoreApproved, pending[0].EventType)
	}
}

func TestRejectStoreStoresReasonAndComment(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newDecisionUseCase(store)

	err := uc.Reject(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-1",
		ActorID:    "admin-1",
		Reason:     "business license document is missing",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusRejected {
		t.Fatalf("expected rejected status, got %q", updated.Status)
	}
	if updated.RejectionReason != "business license document is missing" {
		t.Fatalf("unexpected rejection reason %q", updated.RejectionReason)
	}
	if updated.RejectedAt == nil {
		t.Fatalf("expected rejected_at to be set")
	}

	comments, err := store.ListRejectionComments(context.Background(), []string{"store-1"})
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 rejection comment, got %d", len(comments))
	}
	if comments[0].Comment != "business license document is missing" {
		t.Fatalf("unexpected comment text %q", comments[0].Comment)
	}
}

func TestRejectShortReasonLeavesStateUntouched(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newDecisionUseCase(store)

	err := uc.Reject(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-1",
		ActorID:    "admin-1",
		Reason:     "too bad",
	})
	if !errors.Is(err, domainerrors.ErrRejectionReasonTooShort) {
		t.Fatalf("expected ErrRejectionReasonTooShort, got %v", err)
	}

	untouched, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if untouched.Status != entities.ReviewStatusPending {
		t.Fatalf("expected status to stay pending, got %q", untouched.Status)
	}
	if len(store.Audits()) != 0 {
		t.Fatalf("expected no audit rows after validation failure")
	}
}

func TestRejectApprovedStoreBlocked(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusApproved)},
		nil,
	)
	uc := newDecisionUseCase(store)

	err := uc.Reject(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-1",
		ActorID:    "admin-1",
		Reason:     "changed our mind about this one",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestApproveRequiresActor(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newDecisionUseCase(store)

	err := uc.Approve(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-1",
		ActorID:    "   ",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected ErrUnauthorizedActor, got %v", err)
	}
}

func TestApproveMissingStore(t *testing.T) {
	store := memory.NewStore(nil, nil)
	uc := newDecisionUseCase(store)

	err := uc.Approve(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   "store-missing",
		ActorID:    "admin-1",
	})
	if !errors.Is(err, domainerrors.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestRejectProductStoresComment(t *testing.T) {
	store := memory.NewStore(nil, []entities.Product{seedProduct(entities.ReviewStatusPending)})
	uc := newDecisionUseCase(store)

	err := uc.Reject(context.Background(), DecisionCommand{
		TargetType: entities.TargetTypeProduct,
		TargetID:   "product-1",
		ActorID:    "admin-1",
		Reason:     "listing photos do not match the item",
	})
	if err != nil {
		t.Fatalf("reject product failed: %v", err)
	}
	rejected, err := store.GetProduct(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if rejected.Status != entities.ReviewStatusRejected {
		t.Fatalf("expected rejected product, got %q", rejected.Status)
	}
	if rejected.RejectionComment == "" {
		t.Fatalf("expected rejection comment to be stored on the product")
	}
}
