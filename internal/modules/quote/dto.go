package quote

import "time"

type FeatureSelection struct {
	FeatureID int64 `json:"feature_id" validate:"required"`
	Quantity  int   `json:"quantity"`
}

type PageSelection struct {
	PageID   int64 `json:"page_id" validate:"required"`
	Quantity int   `json:"quantity"`
}

type CreateQuoteRequest struct {
	ProjectTypeID *int64 `json:"project_type_id,omitempty"`

	ClientName   string `json:"client_name" validate:"required,min=2"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`

	Notes         string `json:"notes"`
	InternalNotes string `json:"internal_notes"`

	Features []FeatureSelection `json:"features"`
	Pages    []PageSelection    `json:"pages"`
}

// UpdateQuoteRequest patches header fields. Absent fields stay untouched;
// TotalPrice in particular is only written when explicitly present.
type UpdateQuoteRequest struct {
	ProjectTypeID *int64 `json:"project_type_id,omitempty"`

	ClientName   *string `json:"client_name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`

	Notes         *string `json:"notes,omitempty"`
	InternalNotes *string `json:"internal_notes,omitempty"`

	LeadStatus *string    `json:"lead_status,omitempty"`
	TotalPrice *float64   `json:"total_price,omitempty"`
	Closed     *bool      `json:"closed,omitempty"`
	CloseDate  *time.Time `json:"close_date,omitempty"`
}

type PatchStatusRequest struct {
	LeadStatus string `json:"lead_status" binding:"required"`
}

type AddFeatureLineRequest struct {
	FeatureID int64 `json:"feature_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type AddPageLineRequest struct {
	PageID   int64 `json:"page_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

// UpdateLineRequest carries the two line write modes. A quantity re-derives
// the price from the current catalog; a bare price is a manual override that
// sticks until the next quantity change.
type UpdateLineRequest struct {
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

type ListFilters struct {
	Status string
	Page   int
	Limit  int
}
