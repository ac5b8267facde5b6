package entities

import (
	"strings"
	"time"
)

// Product is listed under exactly one store and reviewed independently of it.
// StoreID is a lookup back-reference, not ownership.
type Product struct {
	ProductID        string
	StoreID          string
	Name             string
	Description      string
	Category         string
	Price            float64
	Status           ReviewStatus
	RejectionComment string
	DecidedByUserID  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	ResubmittedAt    *time.Time
}

type ProductFields struct {
	Name        string
	Description string
	Category    string
	Price       float64
}

func (p *Product) ApplyFields(fields ProductFields) {
	p.Name = strings.TrimSpace(fields.Name)
	p.Description = strings.TrimSpace(fields.Description)
	p.Category = strings.TrimSpace(fields.Category)
	p.Price = fields.Price
}
