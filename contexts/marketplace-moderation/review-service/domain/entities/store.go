package entities

import (
	"strings"
	"time"
)

// StoreSubmission is a store registration moving through admin review.
// RejectionReason is the active reason and is populated only while the
// status is rejected; historical reasons live in the rejection comment log.
type StoreSubmission struct {
	StoreID         string
	Name            string
	OwnerName       string
	Address         string
	ContactEmail    string
	ContactPhone    string
	Status          ReviewStatus
	RejectionReason string
	DecidedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	ResubmittedAt   *time.Time
}

func (s StoreSubmission) ValidateCreate() bool {
	return strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.OwnerName) != ""
}

// StoreFields is the owner-editable slice of a store registration, replaced
// wholesale on resubmission.
type StoreFields struct {
	Name         string
	OwnerName    string
	Address      string
	ContactEmail string
	ContactPhone string
}

func (s *StoreSubmission) ApplyFields(fields StoreFields) {
	s.Name = strings.TrimSpace(fields.Name)
	s.OwnerName = strings.TrimSpace(fields.OwnerName)
	s.Address = strings.TrimSpace(fields.Address)
	s.ContactEmail = strings.TrimSpace(fields.ContactEmail)
	s.ContactPhone = strings.TrimSpace(fields.ContactPhone)
}
