package domain

import "time"

type PricingType string

const (
	PricingFlat   PricingType = "flat"
	PricingHourly PricingType = "hourly"
)

func ParsePricingType(s string) (PricingType, bool) {
	switch PricingType(s) {
	case PricingFlat, PricingHourly:
		return PricingType(s), true
	}
	return "", false
}

type ProjectType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" gorm:"size:255;not null" validate:"required,min=2"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	BasePrice   float64   `json:"base_price" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Feature is a priced add-on. Which price fields are meaningful depends on
// PricingType: flat uses FlatPrice, hourly uses HourlyRate×EstimatedHours.
// The inactive mode's fields are ignored, not validated away.
type Feature struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name" gorm:"size:255;not null" validate:"required,min=2"`
	Description    string      `json:"description,omitempty" gorm:"type:text"`
	Category       string      `json:"category,omitempty" gorm:"size:255"`
	PricingType    PricingType `json:"pricing_type" gorm:"size:50;not null"`
	FlatPrice      *float64    `json:"flat_price,omitempty"`
	HourlyRate     *float64    `json:"hourly_rate,omitempty"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`

	SupportsQuantity bool `json:"supports_quantity"`

	// Eligibility: a direct single assignment, a global flag, or rows in
	// feature_project_types. A feature may match more than one rule.
	ForAllProjectTypes bool   `json:"for_all_project_types"`
	ProjectTypeID      *int64 `json:"project_type_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeatureProjectType links a feature to one of several project types when it
// is offered on more than one, but not all, of them.
type FeatureProjectType struct {
	ID            int64 `json:"id"`
	FeatureID     int64 `json:"feature_id" gorm:"uniqueIndex:idx_feature_project_type;not null"`
	ProjectTypeID int64 `json:"project_type_id" gorm:"uniqueIndex:idx_feature_project_type;not null"`
}

func (FeatureProjectType) TableName() string { return "feature_project_types" }

type Page struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name" gorm:"size:255;not null" validate:"required,min=2"`
	Description     string  `json:"description,omitempty" gorm:"type:text"`
	PricePerPage    float64 `json:"price_per_page" validate:"gte=0"`
	DefaultQuantity int     `json:"default_quantity" gorm:"default:1" validate:"gte=1"`

	SupportsQuantity bool `json:"supports_quantity"`
	IsActive         bool `json:"is_active"`

	// Null means the page is offered on every project type.
	ProjectTypeID *int64 `json:"project_type_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeletedItemLabel names catalog rows that line items still reference after
// the row itself is gone.
const DeletedItemLabel = "(deleted)"
