package commands

import (
	"encoding/json"
	"time"

	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

const (
	EventStoreApproved      = "store.approved"
	EventStoreRejected      = "store.rejected"
	EventStoreResubmitted   = "store.resubmitted"
	EventProductApproved    = "product.approved"
	EventProductRejected    = "product.rejected"
	EventProductResubmitted = "product.resubmitted"
)

func newReviewEnvelope(
	eventID string,
	eventType string,
	targetID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "review-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "target_id",
		PartitionKey:     targetID,
		Data:             payload,
	}, nil
}
