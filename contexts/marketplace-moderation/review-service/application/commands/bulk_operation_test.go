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

func newBulkUseCase(store *memory.Store) BulkOperationUseCase {
	return BulkOperationUseCase{
		Repository:     store,
		Review:         newDecisionUseCase(store),
		Idempotency:    memory.NewIdempotencyCache(time.Hour),
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: time.Hour,
	}
}

func bulkSeedStores() []entities.StoreSubmission {
	first := seedStore(entities.ReviewStatusPending)
	second := seedStore(entities.ReviewStatusPending)
	second.StoreID = "store-2"
	second.Name = "Canvas and Ink"
	return []entities.StoreSubmission{first, second}
}

func TestBulkApproveProcessesItemsIndependently(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	result, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-1",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationApprove,
		Selection:      entities.NewSelection("store-1", "store-missing", "store-2"),
	})
	if err != nil {
		t.Fatalf("bulk approve failed: %v", err)
	}
	if result.Processed != 3 || result.SucceededCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.Items[1].TargetID != "store-missing" || result.Items[1].Outcome == OutcomeSuccess {
		t.Fatalf("expected the missing target to fail: %+v", result.Items[1])
	}

	for _, storeID := range []string{"store-1", "store-2"} {
		updated, err := store.GetStore(context.Background(), storeID)
		if err != nil {
			t.Fatalf("get %s failed: %v", storeID, err)
		}
		if updated.Status != entities.ReviewStatusApproved {
			t.Fatalf("expected %s approved, got %q", storeID, updated.Status)
		}
	}

	operations := store.BulkOperations()
	if len(operations) != 1 {
		t.Fatalf("expected 1 bulk operation record, got %d", len(operations))
	}
	if operations[0].SucceededCount != 2 || operations[0].FailedCount != 1 {
		t.Fatalf("unexpected recorded counts: %+v", operations[0])
	}
}

func TestBulkRejectValidatesSharedReasonUpfront(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	_, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-2",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationReject,
		Selection:      entities.NewSelection("store-1", "store-2"),
		Reason:         "nope",
	})
	if !errors.Is(err, domainerrors.ErrRejectionReasonTooShort) {
		t.Fatalf("expected ErrRejectionReasonTooShort, got %v", err)
	}

	// The short shared reason must block the whole batch before any write.
	for _, storeID := range []string{"store-1", "store-2"} {
		untouched, err := store.GetStore(context.Background(), storeID)
		if err != nil {
			t.Fatalf("get %s failed: %v", storeID, err)
		}
		if untouched.Status != entities.ReviewStatusPending {
			t.Fatalf("expected %s to stay pending, got %q", storeID, untouched.Status)
		}
	}
	if len(store.BulkOperations()) != 0 {
		t.Fatalf("expected no bulk operation record after upfront validation failure")
	}
}

func TestBulkRejectSharesReasonAcrossItems(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	result, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-3",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationReject,
		Selection:      entities.NewSelection("store-1", "store-2"),
		Reason:         "registration documents are incomplete",
	})
	if err != nil {
		t.Fatalf("bulk reject failed: %v", err)
	}
	if result.SucceededCount != 2 {
		t.Fatalf("expected both rejections to succeed: %+v", result)
	}

	comments, err := store.ListRejectionComments(context.Background(), []string{"store-1", "store-2"})
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 rejection comments, got %d", len(comments))
	}
	for _, comment := range comments {
		if comment.Comment != "registration documents are incomplete" {
			t.Fatalf("expected shared reason on every comment, got %q", comment.Comment)
		}
	}
}

func TestBulkOperationIdempotentReplay(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)
	cmd := BulkOperationCommand{
		IdempotencyKey: "bulk-4",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationApprove,
		Selection:      entities.NewSelection("store-1", "store-2"),
	}

	first, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first execute failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if first.SucceededCount != second.SucceededCount || len(first.Items) != len(second.Items) {
		t.Fatalf("expected identical replayed result: first=%+v second=%+v", first, second)
	}
	if got := len(store.BulkOperations()); got != 1 {
		t.Fatalf("expected a single bulk operation record after replay, got %d", got)
	}
}

func TestBulkOperationRejectsUnknownOperationType(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	_, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-5",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  "bulk_archive",
		Selection:      entities.NewSelection("store-1"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput, got %v", err)
	}
}

func TestBulkOperationSelectionDropsBlanksAndDuplicates(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	result, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-6",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationApprove,
		Selection:      entities.NewSelection("store-1", "  ", "store-1", "store-2"),
	})
	if err != nil {
		t.Fatalf("bulk approve failed: %v", err)
	}
	// A duplicated target is decided once; replaying it inside one request
	// would fail the second attempt on the transition table.
	if result.Processed != 2 || result.SucceededCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected totals: %+v", result)
	}
}

func TestBulkOperationEmptySelection(t *testing.T) {
	store := memory.NewStore(bulkSeedStores(), nil)
	uc := newBulkUseCase(store)

	_, err := uc.Execute(context.Background(), BulkOperationCommand{
		IdempotencyKey: "bulk-7",
		ActorID:        "admin-1",
		TargetType:     entities.TargetTypeStore,
		OperationType:  BulkOperationApprove,
		Selection:      entities.NewSelection("   "),
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput for an empty selection, got %v", err)
	}
}
