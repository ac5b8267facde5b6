package ports

import (
	"context"
	"time"

	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

type StoreFilter struct {
	Status entities.ReviewStatus
}

type ProductFilter struct {
	StoreID string
	Status  entities.ReviewStatus
}

// Repository is the persistence collaborator for the moderation workflow.
// Status writes are compare-and-set: the update applies only while the row
// still holds the expected status, otherwise ErrStatusConflict.
type Repository interface {
	GetStore(ctx context.Context, storeID string) (entities.StoreSubmission, error)
	UpdateStore(ctx context.Context, store entities.StoreSubmission, expected entities.ReviewStatus) error
	ListStores(ctx context.Context, filter StoreFilter) ([]entities.StoreSubmission, error)

	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	UpdateProduct(ctx context.Context, product entities.Product, expected entities.ReviewStatus) error
	ListProducts(ctx context.Context, filter ProductFilter) ([]entities.Product, error)

	AddRejectionComment(ctx context.Context, comment entities.RejectionComment) error
	ListRejectionComments(ctx context.Context, targetIDs []string) ([]entities.RejectionComment, error)

	AddAudit(ctx context.Context, audit entities.ReviewAudit) error
	AddBulkOperation(ctx context.Context, operation entities.BulkReviewOperation) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
