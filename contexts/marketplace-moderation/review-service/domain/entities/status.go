package entities

import "strings"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Legacy feeds still emit "inactive" for rejected products.
const reviewStatusInactiveAlias = "inactive"

// NormalizeStatus canonicalizes raw status input, folding the inactive alias
// into rejected. Unknown values pass through untouched so callers can refuse
// them explicitly.
func NormalizeStatus(raw string) ReviewStatus {
	value := strings.TrimSpace(strings.ToLower(raw))
	if value == reviewStatusInactiveAlias {
		return ReviewStatusRejected
	}
	return ReviewStatus(value)
}

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	default:
		return false
	}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// reviewTransitions is the closed edge set of the moderation state machine.
// Approved is terminal here; deactivating a live store is an administrative
// action outside this workflow.
var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewStatusPending:  {ReviewStatusApproved, ReviewStatusRejected},
	ReviewStatusRejected: {ReviewStatusPending},
	ReviewStatusApproved: {},
}

func CanTransition(from ReviewStatus, to ReviewStatus) bool {
	for _, next := range reviewTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TargetType string

const (
	TargetTypeStore   TargetType = "store"
	TargetTypeProduct TargetType = "product"
)

func (t TargetType) Valid() bool {
	return t == TargetTypeStore || t == TargetTypeProduct
}
