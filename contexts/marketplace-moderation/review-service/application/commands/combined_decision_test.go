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

func newCombinedUseCase(store *memory.Store) CombinedDecisionUseCase {
	return CombinedDecisionUseCase{
		Review:         newDecisionUseCase(store),
		Idempotency:    memory.NewIdempotencyCache(time.Hour),
		Clock:          store,
		IdempotencyTTL: time.Hour,
	}
}

func combinedSeedProducts() []entities.Product {
	first := seedProduct(entities.ReviewStatusPending)
	second := seedProduct(entities.ReviewStatusPending)
	second.ProductID = "product-2"
	second.Name = "Kind of Blue LP"
	return []entities.Product{first, second}
}

func TestCombinedDecisionCascadeOverridesStoreApproval(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		combinedSeedProducts(),
	)
	uc := newCombinedUseCase(store)

	result, err := uc.Execute(context.Background(), CombinedDecisionCommand{
		IdempotencyKey: "combined-1",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionApprove,
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionReject, Comment: "photos do not match the listing"},
			{ProductID: "product-2", Decision: entities.DecisionReject, Comment: "counterfeit pressing suspected"},
		},
	})
	if err != nil {
		t.Fatalf("combined decision failed: %v", err)
	}
	if !result.CascadeOverride {
		t.Fatalf("expected cascade override when every product is rejected")
	}
	if result.Store.Outcome != OutcomeSuccess {
		t.Fatalf("expected store decision to succeed, got %+v", result.Store)
	}
	if result.Attempted != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Fatalf("unexpected totals: %+v", result)
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusRejected {
		t.Fatalf("expected cascaded store rejection, got %q", updated.Status)
	}
	if updated.RejectionReason != CascadeRejectionReason {
		t.Fatalf("expected cascade rejection reason, got %q", updated.RejectionReason)
	}
}

func TestCombinedDecisionNoCascadeOnMixedProducts(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		combinedSeedProducts(),
	)
	uc := newCombinedUseCase(store)

	result, err := uc.Execute(context.Background(), CombinedDecisionCommand{
		IdempotencyKey: "combined-2",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionApprove,
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionApprove},
			{ProductID: "product-2", Decision: entities.DecisionReject, Comment: "counterfeit pressing suspected"},
		},
	})
	if err != nil {
		t.Fatalf("combined decision failed: %v", err)
	}
	if result.CascadeOverride {
		t.Fatalf("did not expect cascade override with an approved product")
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusApproved {
		t.Fatalf("expected approved store, got %q", updated.Status)
	}
}

func TestCombinedDecisionIdempotentReplay(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		combinedSeedProducts(),
	)
	uc := newCombinedUseCase(store)
	cmd := CombinedDecisionCommand{
		IdempotencyKey: "combined-3",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionApprove,
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionApprove},
			{ProductID: "product-2", Decision: entities.DecisionApprove},
		},
	}

	first, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first execute failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if first.Succeeded != second.Succeeded || first.Store.Outcome != second.Store.Outcome {
		t.Fatalf("expected identical replayed result: first=%+v second=%+v", first, second)
	}
	// The replay must not re-run decisions: one audit row per target only.
	if got := len(store.Audits()); got != 3 {
		t.Fatalf("expected 3 audit rows after replay, got %d", got)
	}
}

func TestCombinedDecisionKeyConflictOnDifferentPayload(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		combinedSeedProducts(),
	)
	uc := newCombinedUseCase(store)

	_, err := uc.Execute(context.Background(), CombinedDecisionCommand{
		IdempotencyKey: "combined-4",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionApprove,
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionApprove},
		},
	})
	if err != nil {
		t.Fatalf("seed execute failed: %v", err)
	}

	_, err = uc.Execute(context.Background(), CombinedDecisionCommand{
		IdempotencyKey: "combined-4",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionReject,
		StoreReason:    "registered address could not be verified",
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionApprove},
		},
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected ErrIdempotencyKeyConflict, got %v", err)
	}
}

func TestCombinedDecisionRequiresIdempotencyKey(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newCombinedUseCase(store)

	_, err := uc.Execute(context.Background(), CombinedDecisionCommand{
		ActorID:       "admin-1",
		StoreID:       "store-1",
		StoreDecision: entities.DecisionApprove,
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
}

func TestCombinedDecisionProductFailureIsIsolated(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		[]entities.Product{seedProduct(entities.ReviewStatusPending)},
	)
	uc := newCombinedUseCase(store)

	result, err := uc.Execute(context.Background(), CombinedDecisionCommand{
		IdempotencyKey: "combined-5",
		ActorID:        "admin-1",
		StoreID:        "store-1",
		StoreDecision:  entities.DecisionApprove,
		Products: []ProductDecisionInput{
			{ProductID: "product-1", Decision: entities.DecisionApprove},
			{ProductID: "product-missing", Decision: entities.DecisionApprove},
		},
	})
	if err != nil {
		t.Fatalf("combined decision failed: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.Products[1].Outcome != OutcomeTransportError {
		t.Fatalf("expected transport outcome for missing product, got %+v", result.Products[1])
	}
	if result.Store.Outcome != OutcomeSuccess {
		t.Fatalf("expected store approval despite one failed product, got %+v", result.Store)
	}
}
