package queries

import (
	"context"
	"log/slog"
	"strings"

	application "bazaar/contexts/marketplace-moderation/review-service/application"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

type ListStoresQuery struct {
	Status string
}

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetStore(ctx context.Context, storeID string) (entities.StoreSubmission, error) {
	return uc.Repository.GetStore(ctx, strings.TrimSpace(storeID))
}

func (uc QueryUseCase) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	return uc.Repository.GetProduct(ctx, strings.TrimSpace(productID))
}

func (uc QueryUseCase) ListStores(ctx context.Context, query ListStoresQuery) ([]entities.StoreSubmission, error) {
	filter := ports.StoreFilter{}
	if strings.TrimSpace(query.Status) != "" {
		status := entities.NormalizeStatus(query.Status)
		if !status.Valid() {
			return nil, domainerrors.ErrInvalidReviewInput
		}
		filter.Status = status
	}
	return uc.Repository.ListStores(ctx, filter)
}

func (uc QueryUseCase) ListStoreProducts(ctx context.Context, storeID string, status string) ([]entities.Product, error) {
	filter := ports.ProductFilter{StoreID: strings.TrimSpace(storeID)}
	if strings.TrimSpace(status) != "" {
		normalized := entities.NormalizeStatus(status)
		if !normalized.Valid() {
			return nil, domainerrors.ErrInvalidReviewInput
		}
		filter.Status = normalized
	}
	return uc.Repository.ListProducts(ctx, filter)
}

// StoreRejectionComments returns the full rejection history for a store and
// every product under it, newest first, to populate resubmission forms.
func (uc QueryUseCase) StoreRejectionComments(ctx context.Context, storeID string) ([]entities.RejectionComment, error) {
	storeID = strings.TrimSpace(storeID)
	store, err := uc.Repository.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	products, err := uc.Repository.ListProducts(ctx, ports.ProductFilter{StoreID: store.StoreID})
	if err != nil {
		return nil, err
	}
	targetIDs := make([]string, 0, len(products)+1)
	targetIDs = append(targetIDs, store.StoreID)
	for _, product := range products {
		targetIDs = append(targetIDs, product.ProductID)
	}
	return uc.Repository.ListRejectionComments(ctx, targetIDs)
}

type QueueSummary struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

func (uc QueryUseCase) QueueSummary(ctx context.Context) (QueueSummary, error) {
	stores, err := uc.Repository.ListStores(ctx, ports.StoreFilter{})
	if err != nil {
		return QueueSummary{}, err
	}
	summary := summarize(stores)
	application.ResolveLogger(uc.Logger).Debug("review queue summarized",
		"event", "review_queue_summarized",
		"module", "marketplace-moderation/review-service",
		"layer", "application",
		"total", summary.Total,
		"pending", summary.Pending,
	)
	return summary, nil
}

func summarize(stores []entities.StoreSubmission) QueueSummary {
	summary := QueueSummary{Total: len(stores)}
	for _, store := range stores {
		switch entities.NormalizeStatus(string(store.Status)) {
		case entities.ReviewStatusPending:
			summary.Pending++
		case entities.ReviewStatusApproved:
			summary.Approved++
		case entities.ReviewStatusRejected:
			summary.Rejected++
		}
	}
	return summary
}
