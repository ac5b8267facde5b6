package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-moderation/review-service/application/commands"
	"bazaar/contexts/marketplace-moderation/review-service/application/queries"
	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	httptransport "bazaar/contexts/marketplace-moderation/review-service/transport/http"
)

type Handler struct {
	ReviewDecision   commands.ReviewDecisionUseCase
	CombinedDecision commands.CombinedDecisionUseCase
	BulkOperation    commands.BulkOperationUseCase
	Resubmission     commands.ResubmissionUseCase
	Queries          queries.QueryUseCase
	Logger           *slog.Logger
}

func (h Handler) GetStoreHandler(ctx context.Context, storeID string) (httptransport.GetStoreResponse, error) {
	item, err := h.Queries.GetStore(ctx, storeID)
	if err != nil {
		return httptransport.GetStoreResponse{}, err
	}
	return httptransport.GetStoreResponse{Store: mapStore(item)}, nil
}

func (h Handler) ListStoresHandler(ctx context.Context, status string) (httptransport.ListStoresResponse, error) {
	items, err := h.Queries.ListStores(ctx, queries.ListStoresQuery{Status: status})
	if err != nil {
		return httptransport.ListStoresResponse{}, err
	}
	result := make([]httptransport.StoreDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapStore(item))
	}
	return httptransport.ListStoresResponse{Items: result}, nil
}

func (h Handler) ListStoreProductsHandler(
	ctx context.Context,
	storeID string,
	status string,
) (httptransport.ListProductsResponse, error) {
	items, err := h.Queries.ListStoreProducts(ctx, storeID, status)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	result := make([]httptransport.ProductDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapProduct(item))
	}
	return httptransport.ListProductsResponse{Items: result}, nil
}

func (h Handler) StoreCommentsHandler(ctx context.Context, storeID string) (httptransport.ListCommentsResponse, error) {
	items, err := h.Queries.StoreRejectionComments(ctx, storeID)
	if err != nil {
		return httptransport.ListCommentsResponse{}, err
	}
	result := make([]httptransport.RejectionCommentDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.RejectionCommentDTO{
			CommentID:  item.CommentID,
			TargetType: string(item.TargetType),
			TargetID:   item.TargetID,
			Comment:    item.Comment,
			CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListCommentsResponse{Items: result}, nil
}

func (h Handler) QueueSummaryHandler(ctx context.Context) (httptransport.QueueSummaryResponse, error) {
	summary, err := h.Queries.QueueSummary(ctx)
	if err != nil {
		return httptransport.QueueSummaryResponse{}, err
	}
	return httptransport.QueueSummaryResponse{
		Total:    summary.Total,
		Pending:  summary.Pending,
		Approved: summary.Approved,
		Rejected: summary.Rejected,
	}, nil
}

func (h Handler) ApproveStoreHandler(ctx context.Context, actorID string, storeID string) (httptransport.GetStoreResponse, error) {
	err := h.ReviewDecision.Approve(ctx, commands.DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   storeID,
		ActorID:    actorID,
	})
	if err != nil {
		return httptransport.GetStoreResponse{}, err
	}
	return h.GetStoreHandler(ctx, storeID)
}

func (h Handler) RejectStoreHandler(
	ctx context.Context,
	actorID string,
	storeID string,
	req httptransport.RejectRequest,
) (httptransport.GetStoreResponse, error) {
	err := h.ReviewDecision.Reject(ctx, commands.DecisionCommand{
		TargetType: entities.TargetTypeStore,
		TargetID:   storeID,
		ActorID:    actorID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.GetStoreResponse{}, err
	}
	return h.GetStoreHandler(ctx, storeID)
}

func (h Handler) ApproveProductHandler(ctx context.Context, actorID string, productID string) (httptransport.GetProductResponse, error) {
	err := h.ReviewDecision.Approve(ctx, commands.DecisionCommand{
		TargetType: entities.TargetTypeProduct,
		TargetID:   productID,
		ActorID:    actorID,
	})
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	return h.getProduct(ctx, productID)
}

func (h Handler) RejectProductHandler(
	ctx context.Context,
	actorID string,
	productID string,
	req httptransport.RejectRequest,
) (httptransport.GetProductResponse, error) {
	err := h.ReviewDecision.Reject(ctx, commands.DecisionCommand{
		TargetType: entities.TargetTypeProduct,
		TargetID:   productID,
		ActorID:    actorID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	return h.getProduct(ctx, productID)
}

func (h Handler) CombinedDecisionHandler(
	ctx context.Context,
	idempotencyKey string,
	actorID string,
	storeID string,
	req httptransport.CombinedDecisionRequest,
) (httptransport.CombinedDecisionResponse, error) {
	products := make([]commands.ProductDecisionInput, 0, len(req.Products))
	for _, item := range req.Products {
		products = append(products, commands.ProductDecisionInput{
			ProductID: item.ProductID,
			Decision:  entities.Decision(item.Decision),
			Comment:   item.Comment,
		})
	}
	result, err := h.CombinedDecision.Execute(ctx, commands.CombinedDecisionCommand{
		IdempotencyKey: idempotencyKey,
		ActorID:        actorID,
		StoreID:        storeID,
		StoreDecision:  entities.Decision(req.StoreDecision),
		StoreReason:    req.StoreReason,
		Products:       products,
	})
	if err != nil {
		return httptransport.CombinedDecisionResponse{}, err
	}
	return httptransport.CombinedDecisionResponse{
		Store:           mapItemResult(result.Store),
		Products:        mapItemResults(result.Products),
		CascadeOverride: result.CascadeOverride,
		Attempted:       result.Attempted,
		Succeeded:       result.Succeeded,
		Failed:          result.Failed,
	}, nil
}

func (h Handler) BulkOperationHandler(
	ctx context.Context,
	idempotencyKey string,
	actorID string,
	req httptransport.BulkOperationRequest,
) (httptransport.BulkOperationResponse, error) {
	// Checked ids arrive as a raw list; folding them through a Selection
	// dedupes repeats so one target is never decided twice per request.
	selection := entities.NewSelection(req.TargetIDs...)
	result, err := h.BulkOperation.Execute(ctx, commands.BulkOperationCommand{
		IdempotencyKey: idempotencyKey,
		ActorID:        actorID,
		TargetType:     entities.TargetType(req.TargetType),
		OperationType:  req.OperationType,
		Selection:      selection,
		Reason:         req.Reason,
	})
	if err != nil {
		return httptransport.BulkOperationResponse{}, err
	}
	return httptransport.BulkOperationResponse{
		Processed:      result.Processed,
		SucceededCount: result.SucceededCount,
		FailedCount:    result.FailedCount,
		Items:          mapItemResults(result.Items),
	}, nil
}

func (h Handler) ResubmitStoreHandler(
	ctx context.Context,
	actorID string,
	storeID string,
	req httptransport.ResubmitStoreRequest,
) (httptransport.GetStoreResponse, error) {
	err := h.Resubmission.ResubmitStore(ctx, commands.ResubmitStoreCommand{
		StoreID: storeID,
		ActorID: actorID,
		Fields: entities.StoreFields{
			Name:         req.Name,
			OwnerName:    req.OwnerName,
			Address:      req.Address,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
		},
	})
	if err != nil {
		return httptransport.GetStoreResponse{}, err
	}
	return h.GetStoreHandler(ctx, storeID)
}

func (h Handler) ResubmitProductHandler(
	ctx context.Context,
	actorID string,
	productID string,
	req httptransport.ResubmitProductRequest,
) (httptransport.GetProductResponse, error) {
	err := h.Resubmission.ResubmitProduct(ctx, commands.ResubmitProductCommand{
		ProductID: productID,
		ActorID:   actorID,
		Fields: entities.ProductFields{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
		},
	})
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	return h.getProduct(ctx, productID)
}

func (h Handler) getProduct(ctx context.Context, productID string) (httptransport.GetProductResponse, error) {
	item, err := h.Queries.GetProduct(ctx, productID)
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	return httptransport.GetProductResponse{Product: mapProduct(item)}, nil
}

func mapStore(item entities.StoreSubmission) httptransport.StoreDTO {
	dto := httptransport.StoreDTO{
		StoreID:         item.StoreID,
		Name:            item.Name,
		OwnerName:       item.OwnerName,
		Address:         item.Address,
		ContactEmail:    item.ContactEmail,
		ContactPhone:    item.ContactPhone,
		Status:          string(item.Status),
		RejectionReason: item.RejectionReason,
		DecidedByUserID: item.DecidedByUserID,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ApprovedAt != nil {
		dto.ApprovedAt = item.ApprovedAt.Format(time.RFC3339)
	}
	if item.RejectedAt != nil {
		dto.RejectedAt = item.RejectedAt.Format(time.RFC3339)
	}
	if item.ResubmittedAt != nil {
		dto.ResubmittedAt = item.ResubmittedAt.Format(time.RFC3339)
	}
	return dto
}

func mapProduct(item entities.Product) httptransport.ProductDTO {
	dto := httptransport.ProductDTO{
		ProductID:        item.ProductID,
		StoreID:          item.StoreID,
		Name:             item.Name,
		Description:      item.Description,
		Category:         item.Category,
		Price:            item.Price,
		Status:           string(item.Status),
		RejectionComment: item.RejectionComment,
		DecidedByUserID:  item.DecidedByUserID,
		CreatedAt:        item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ApprovedAt != nil {
		dto.ApprovedAt = item.ApprovedAt.Format(time.RFC3339)
	}
	if item.RejectedAt != nil {
		dto.RejectedAt = item.RejectedAt.Format(time.RFC3339)
	}
	if item.ResubmittedAt != nil {
		dto.ResubmittedAt = item.ResubmittedAt.Format(time.RFC3339)
	}
	return dto
}

func mapItemResult(item commands.ItemResult) httptransport.ItemResultDTO {
	return httptransport.ItemResultDTO{
		TargetID: item.TargetID,
		Outcome:  string(item.Outcome),
		Detail:   item.Detail,
	}
}

func mapItemResults(items []commands.ItemResult) []httptransport.ItemResultDTO {
	result := make([]httptransport.ItemResultDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapItemResult(item))
	}
	return result
}
