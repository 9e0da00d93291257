package domain

import "time"

type LeadStatus string

const (
	LeadInProgress   LeadStatus = "In Progress"
	LeadProposalSent LeadStatus = "Proposal Sent"
	LeadWon          LeadStatus = "Won"
	LeadLost         LeadStatus = "Lost"
	LeadOnHold       LeadStatus = "On Hold"
)

func ParseLeadStatus(s string) (LeadStatus, bool) {
	switch LeadStatus(s) {
	case LeadInProgress, LeadProposalSent, LeadWon, LeadLost, LeadOnHold:
		return LeadStatus(s), true
	}
	return "", false
}

// Quote is the aggregate root: a header plus feature and page line items.
// TotalPrice is a cached derived value, recomputed and persisted on every
// mutation that touches line items, never live-computed on read.
type Quote struct {
	ID            int64  `json:"id"`
	ProjectTypeID *int64 `json:"project_type_id,omitempty" gorm:"index"`

	ClientName   string `json:"client_name" gorm:"size:255;not null" validate:"required,min=2"`
	BusinessName string `json:"business_name,omitempty" gorm:"size:255"`
	Email        string `json:"email" gorm:"size:255;not null" validate:"required,email"`
	Phone        string `json:"phone,omitempty" gorm:"size:50"`

	Notes         string `json:"notes,omitempty" gorm:"type:text"`
	InternalNotes string `json:"internal_notes,omitempty" gorm:"type:text"`

	LeadStatus LeadStatus `json:"lead_status" gorm:"size:50;not null"`
	TotalPrice float64    `json:"total_price"`

	// Closed/CloseDate are set explicitly by the caller; they are not
	// derived from LeadStatus.
	Closed    bool       `json:"closed"`
	CloseDate *time.Time `json:"close_date,omitempty"`

	CreatedBy string `json:"created_by" gorm:"size:255;index;not null"`
	UpdatedBy string `json:"updated_by,omitempty" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Features []QuoteFeature `json:"features,omitempty" gorm:"foreignKey:QuoteID"`
	Pages    []QuotePage    `json:"pages,omitempty" gorm:"foreignKey:QuoteID"`
}

func (q *Quote) IsWon() bool  { return q.LeadStatus == LeadWon }
func (q *Quote) IsLost() bool { return q.LeadStatus == LeadLost }

// CanAccess is the single authorization rule for quotes: admins see
// everything, everyone else only what they created.
func (q *Quote) CanAccess(ident Identity) bool {
	return ident.IsAdmin() || q.CreatedBy == ident.Username
}

// QuoteFeature is a feature line. Price is the frozen total for the line
// (unit price × quantity at the time it was written); later catalog edits do
// not touch it.
type QuoteFeature struct {
	ID        int64   `json:"id"`
	QuoteID   int64   `json:"quote_id" gorm:"uniqueIndex:idx_quote_feature;not null"`
	FeatureID int64   `json:"feature_id" gorm:"uniqueIndex:idx_quote_feature;not null"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	Price     float64 `json:"price"`

	Feature *Feature `json:"feature,omitempty" gorm:"foreignKey:FeatureID"`
}

func (QuoteFeature) TableName() string { return "quote_features" }

// FeatureName falls back to a placeholder when the catalog row was deleted.
func (qf *QuoteFeature) FeatureName() string {
	if qf.Feature == nil {
		return DeletedItemLabel
	}
	return qf.Feature.Name
}

// QuotePage is a page line with the same freezing semantics as QuoteFeature.
type QuotePage struct {
	ID       int64   `json:"id"`
	QuoteID  int64   `json:"quote_id" gorm:"uniqueIndex:idx_quote_page;not null"`
	PageID   int64   `json:"page_id" gorm:"uniqueIndex:idx_quote_page;not null"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price"`

	Page *Page `json:"page,omitempty" gorm:"foreignKey:PageID"`
}

func (QuotePage) TableName() string { return "quote_pages" }

func (qp *QuotePage) PageName() string {
	if qp.Page == nil {
		return DeletedItemLabel
	}
	return qp.Page.Name
}
