package entities

import "time"

// RejectionComment is an append-only audit record of why a target was
// rejected. Resubmission clears the active reason on the entity but never
// touches this log.
type RejectionComment struct {
	CommentID  string
	TargetType TargetType
	TargetID   string
	Comment    string
	CreatedAt  time.Time
}

// ReviewAudit records one applied decision against a target.
type ReviewAudit struct {
	AuditID    string
	TargetType TargetType
	TargetID   string
	Action     string
	OldStatus  ReviewStatus
	NewStatus  ReviewStatus
	ActorID    string
	Reason     string
	CreatedAt  time.Time
}

// BulkReviewOperation records one bulk action run for reporting.
type BulkReviewOperation struct {
	OperationID       string
	TargetType        TargetType
	OperationType     string
	TargetIDs         []string
	PerformedByUserID string
	SucceededCount    int
	FailedCount       int
	Reason            string
	CreatedAt         time.Time
}
