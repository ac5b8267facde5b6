package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

func pendingStore(storeID string) entities.StoreSubmission {
	return entities.StoreSubmission{
		StoreID:   storeID,
		Name:      "Vinyl Basement",
		OwnerName: "Iris Kask",
		Status:    entities.ReviewStatusPending,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpdateStoreCompareAndSet(t *testing.T) {
	store := NewStore([]entities.StoreSubmission{pendingStore("store-1")}, nil)

	current, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	current.Status = entities.ReviewStatusApproved
	if err := store.UpdateStore(context.Background(), current, entities.ReviewStatusPending); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// A writer still holding the pending snapshot must lose the race.
	stale := current
	stale.Status = entities.ReviewStatusRejected
	err = store.UpdateStore(context.Background(), stale, entities.ReviewStatusPending)
	if !errors.Is(err, domainerrors.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestUpdateStoreMatchesInactiveAlias(t *testing.T) {
	legacy := pendingStore("store-1")
	legacy.Status = entities.ReviewStatus("inactive")
	store := NewStore([]entities.StoreSubmission{legacy}, nil)

	updated := legacy
	updated.Status = entities.ReviewStatusPending
	if err := store.UpdateStore(context.Background(), updated, entities.ReviewStatusRejected); err != nil {
		t.Fatalf("expected inactive row to match rejected guard: %v", err)
	}
}

func TestGetStoreNotFound(t *testing.T) {
	store := NewStore(nil, nil)
	_, err := store.GetStore(context.Background(), "store-missing")
	if !errors.Is(err, domainerrors.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	store := NewStore(nil, nil)
	err := store.UpdateProduct(context.Background(), entities.Product{ProductID: "product-missing"}, entities.ReviewStatusPending)
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListStoresFiltersByStatus(t *testing.T) {
	approved := pendingStore("store-2")
	approved.Status = entities.ReviewStatusApproved
	store := NewStore([]entities.StoreSubmission{pendingStore("store-1"), approved}, nil)

	items, err := store.ListStores(context.Background(), ports.StoreFilter{Status: entities.ReviewStatusPending})
	if err != nil {
		t.Fatalf("list stores failed: %v", err)
	}
	if len(items) != 1 || items[0].StoreID != "store-1" {
		t.Fatalf("expected only the pending store, got %+v", items)
	}
}

func TestListProductsFiltersByStore(t *testing.T) {
	store := NewStore(nil, []entities.Product{
		{ProductID: "product-1", StoreID: "store-1", Status: entities.ReviewStatusPending},
		{ProductID: "product-2", StoreID: "store-2", Status: entities.ReviewStatusPending},
	})

	items, err := store.ListProducts(context.Background(), ports.ProductFilter{StoreID: "store-1"})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "product-1" {
		t.Fatalf("expected only store-1 products, got %+v", items)
	}
}

func TestOutboxAppendListMarkPublished(t *testing.T) {
	store := NewStore(nil, nil)
	envelope := ports.EventEnvelope{
		EventID:      "event-1",
		EventType:    "store.approved",
		OccurredAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		PartitionKey: "store-1",
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "event-1" {
		t.Fatalf("expected the appended message pending, got %+v", pending)
	}

	if err := store.MarkOutboxPublished(context.Background(), "event-1", time.Now()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending messages after publish, got %+v", pending)
	}
}

func TestMarkOutboxPublishedUnknownID(t *testing.T) {
	store := NewStore(nil, nil)
	if err := store.MarkOutboxPublished(context.Background(), "event-missing", time.Now()); err == nil {
		t.Fatalf("expected an error for an unknown outbox id")
	}
}

func TestListRejectionCommentsFiltersTargets(t *testing.T) {
	store := NewStore(nil, nil)
	for _, targetID := range []string{"store-1", "store-2"} {
		err := store.AddRejectionComment(context.Background(), entities.RejectionComment{
			CommentID:  "comment-" + targetID,
			TargetType: entities.TargetTypeStore,
			TargetID:   targetID,
			Comment:    "registration documents are incomplete",
		})
		if err != nil {
			t.Fatalf("add comment failed: %v", err)
		}
	}

	comments, err := store.ListRejectionComments(context.Background(), []string{"store-2"})
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].TargetID != "store-2" {
		t.Fatalf("expected only store-2 comments, got %+v", comments)
	}
}
