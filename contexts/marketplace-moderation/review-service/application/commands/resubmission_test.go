package commands

import (
	"context"
	"errors"
	"testing"

	"bazaar/contexts/marketplace-moderation/review-service/adapters/memory"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
)

func newResubmissionUseCase(store *memory.Store) ResubmissionUseCase {
	return ResubmissionUseCase{
		Repository: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
	}
}

func rejectedStoreFields() entities.StoreFields {
	return entities.StoreFields{
		Name:         "Vinyl Basement",
		OwnerName:    "Iris Kask",
		Address:      "14 Harbour Lane",
		ContactEmail: "iris@vinylbasement.example",
		ContactPhone: "+372 5555 1234",
	}
}

func TestResubmitRejectedStoreReturnsToPending(t *testing.T) {
	rejected := seedStore(entities.ReviewStatusRejected)
	rejected.RejectionReason = "address could not be verified"
	store := memory.NewStore([]entities.StoreSubmission{rejected}, nil)
	uc := newResubmissionUseCase(store)

	err := uc.ResubmitStore(context.Background(), ResubmitStoreCommand{
		StoreID: "store-1",
		ActorID: "owner-1",
		Fields:  rejectedStoreFields(),
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusPending {
		t.Fatalf("expected pending after resubmit, got %q", updated.Status)
	}
	if updated.RejectionReason != "" {
		t.Fatalf("expected active rejection reason cleared, got %q", updated.RejectionReason)
	}
	if updated.ResubmittedAt == nil {
		t.Fatalf("expected resubmitted_at to be set")
	}
	if updated.Address != "14 Harbour Lane" {
		t.Fatalf("expected replacement fields applied, got address %q", updated.Address)
	}

	audits := store.Audits()
	if len(audits) != 1 || audits[0].Action != "resubmit" {
		t.Fatalf("expected one resubmit audit row, got %+v", audits)
	}
}

func TestResubmitStoreWithLegacyInactiveStatus(t *testing.T) {
	legacy := seedStore(entities.ReviewStatus("inactive"))
	legacy.RejectionReason = "address could not be verified"
	store := memory.NewStore([]entities.StoreSubmission{legacy}, nil)
	uc := newResubmissionUseCase(store)

	err := uc.ResubmitStore(context.Background(), ResubmitStoreCommand{
		StoreID: "store-1",
		ActorID: "owner-1",
		Fields:  rejectedStoreFields(),
	})
	if err != nil {
		t.Fatalf("resubmit of legacy inactive store failed: %v", err)
	}

	updated, err := store.GetStore(context.Background(), "store-1")
	if err != nil {
		t.Fatalf("get store failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusPending {
		t.Fatalf("expected pending after resubmit, got %q", updated.Status)
	}
}

func TestResubmitPendingStoreBlocked(t *testing.T) {
	store := memory.NewStore(
		[]entities.StoreSubmission{seedStore(entities.ReviewStatusPending)},
		nil,
	)
	uc := newResubmissionUseCase(store)

	err := uc.ResubmitStore(context.Background(), ResubmitStoreCommand{
		StoreID: "store-1",
		ActorID: "owner-1",
		Fields:  rejectedStoreFields(),
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestResubmitStoreRejectsInvalidEmail(t *testing.T) {
	rejected := seedStore(entities.ReviewStatusRejected)
	store := memory.NewStore([]entities.StoreSubmission{rejected}, nil)
	uc := newResubmissionUseCase(store)

	fields := rejectedStoreFields()
	fields.ContactEmail = "not-an-email"
	err := uc.ResubmitStore(context.Background(), ResubmitStoreCommand{
		StoreID: "store-1",
		ActorID: "owner-1",
		Fields:  fields,
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput, got %v", err)
	}
}

func TestResubmitStoreRequiresOwnerName(t *testing.T) {
	rejected := seedStore(entities.ReviewStatusRejected)
	store := memory.NewStore([]entities.StoreSubmission{rejected}, nil)
	uc := newResubmissionUseCase(store)

	fields := rejectedStoreFields()
	fields.OwnerName = ""
	err := uc.ResubmitStore(context.Background(), ResubmitStoreCommand{
		StoreID: "store-1",
		ActorID: "owner-1",
		Fields:  fields,
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput, got %v", err)
	}
}

func TestResubmitRejectedProductKeepsCommentHistory(t *testing.T) {
	rejected := seedProduct(entities.ReviewStatusRejected)
	rejected.RejectionComment = "photos do not match the listing"
	store := memory.NewStore(nil, []entities.Product{rejected})
	store.AddRejectionComment(context.Background(), entities.RejectionComment{
		CommentID:  "comment-1",
		TargetType: entities.TargetTypeProduct,
		TargetID:   "product-1",
		Comment:    "photos do not match the listing",
	})
	uc := newResubmissionUseCase(store)

	err := uc.ResubmitProduct(context.Background(), ResubmitProductCommand{
		ProductID: "product-1",
		ActorID:   "owner-1",
		Fields: entities.ProductFields{
			Name:        "Blue Train LP",
			Description: "1957 pressing, replaced sleeve photos",
			Category:    "vinyl",
			Price:       64.50,
		},
	})
	if err != nil {
		t.Fatalf("resubmit product failed: %v", err)
	}

	updated, err := store.GetProduct(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if updated.Status != entities.ReviewStatusPending {
		t.Fatalf("expected pending after resubmit, got %q", updated.Status)
	}
	if updated.RejectionComment != "" {
		t.Fatalf("expected active rejection comment cleared, got %q", updated.RejectionComment)
	}

	comments, err := store.ListRejectionComments(context.Background(), []string{"product-1"})
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected historical comment preserved, got %d comments", len(comments))
	}
}

func TestResubmitProductRejectsNonPositivePrice(t *testing.T) {
	rejected := seedProduct(entities.ReviewStatusRejected)
	store := memory.NewStore(nil, []entities.Product{rejected})
	uc := newResubmissionUseCase(store)

	err := uc.ResubmitProduct(context.Background(), ResubmitProductCommand{
		ProductID: "product-1",
		ActorID:   "owner-1",
		Fields: entities.ProductFields{
			Name:        "Blue Train LP",
			Description: "1957 pressing",
			Category:    "vinyl",
			Price:       0,
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidReviewInput) {
		t.Fatalf("expected ErrInvalidReviewInput, got %v", err)
	}
}
