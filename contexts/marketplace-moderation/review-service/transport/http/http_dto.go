package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ProductDecisionDTO struct {
	ProductID string `json:"product_id"`
	Decision  string `json:"decision"`
	Comment   string `json:"comment,omitempty"`
}

type CombinedDecisionRequest struct {
	StoreDecision string               `json:"store_decision"`
	StoreReason   string               `json:"store_reason,omitempty"`
	Products      []ProductDecisionDTO `json:"products"`
}

type BulkOperationRequest struct {
	TargetType    string   `json:"target_type"`
	OperationType string   `json:"operation_type"`
	TargetIDs     []string `json:"target_ids"`
	Reason        string   `json:"reason,omitempty"`
}

type ResubmitStoreRequest struct {
	Name         string `json:"name"`
	OwnerName    string `json:"owner_name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

type ResubmitProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

type StoreDTO struct {
	StoreID         string `json:"store_id"`
	Name            string `json:"name"`
	OwnerName       string `json:"owner_name"`
	Address         string `json:"address"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	DecidedByUserID string `json:"decided_by_user_id,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	ApprovedAt      string `json:"approved_at,omitempty"`
	RejectedAt      string `json:"rejected_at,omitempty"`
	ResubmittedAt   string `json:"resubmitted_at,omitempty"`
}

type ProductDTO struct {
	ProductID        string  `json:"product_id"`
	StoreID          string  `json:"store_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	Status           string  `json:"status"`
	RejectionComment string  `json:"rejection_comment,omitempty"`
	DecidedByUserID  string  `json:"decided_by_user_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	ApprovedAt       string  `json:"approved_at,omitempty"`
	RejectedAt       string  `json:"rejected_at,omitempty"`
	ResubmittedAt    string  `json:"resubmitted_at,omitempty"`
}

type RejectionCommentDTO struct {
	CommentID  string `json:"comment_id"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

type GetStoreResponse struct {
	Store StoreDTO `json:"store"`
}

type ListStoresResponse struct {
	Items []StoreDTO `json:"items"`
}

type ListProductsResponse struct {
	Items []ProductDTO `json:"items"`
}

type GetProductResponse struct {
	Product ProductDTO `json:"product"`
}

type ListCommentsResponse struct {
	Items []RejectionCommentDTO `json:"items"`
}

type QueueSummaryResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type ItemResultDTO struct {
	TargetID string `json:"target_id"`
	Outcome  string `json:"outcome"`
	Detail   string `json:"detail,omitempty"`
}

type CombinedDecisionResponse struct {
	Store           ItemResultDTO   `json:"store"`
	Products        []ItemResultDTO `json:"products"`
	CascadeOverride bool            `json:"cascade_override"`
	Attempted       int             `json:"attempted"`
	Succeeded       int             `json:"succeeded"`
	Failed          int             `json:"failed"`
}

type BulkOperationResponse struct {
	Processed      int             `json:"processed"`
	SucceededCount int             `json:"succeeded_count"`
	FailedCount    int             `json:"failed_count"`
	Items          []ItemResultDTO `json:"items"`
}
