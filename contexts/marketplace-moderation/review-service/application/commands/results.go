package commands

import (
	"errors"

	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
)

// Outcome classifies how a single decision ended. Batch callers get one per
// item; they never collapse to a bare boolean.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeTransitionError Outcome = "transition_error"
	OutcomeTransportError  Outcome = "transport_error"
)

type ItemResult struct {
	TargetID string  `json:"target_id"`
	Outcome  Outcome `json:"outcome"`
	Detail   string  `json:"detail,omitempty"`
}

// ClassifyOutcome folds a decision error into the outcome taxonomy. A lost
// compare-and-set race counts as a transition failure: the target is no
// longer in the status the decision required. Everything unrecognized is a
// collaborator failure.
func ClassifyOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domainerrors.ErrInvalidReviewInput),
		errors.Is(err, domainerrors.ErrRejectionReasonTooShort):
		return OutcomeValidationError
	case errors.Is(err, domainerrors.ErrInvalidStatusTransition),
		errors.Is(err, domainerrors.ErrStatusConflict):
		return OutcomeTransitionError
	default:
		return OutcomeTransportError
	}
}

func itemResult(targetID string, err error) ItemResult {
	result := ItemResult{
		TargetID: targetID,
		Outcome:  ClassifyOutcome(err),
	}
	if err != nil {
		result.Detail = err.Error()
	}
	return result
}
