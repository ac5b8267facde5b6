package v1

import (
	"encoding/json"
	"time"
)

// Envelope wraps every review event (store/product approved, rejected,
// resubmitted) written to the outbox and published to the bus. Consumers
// outside this repo decode it by these json tags, so the shape is a frozen
// contract: fields may be added, never renamed or removed.
//
// PartitionKey carries the target id, keeping all events for one store or
// product on a single partition so owner notifications arrive in decision
// order.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}
