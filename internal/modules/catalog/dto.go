package catalog

/* ---------- PROJECT TYPES ---------- */

type CreateProjectTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
}

type UpdateProjectTypeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty"`
}

/* ---------- FEATURES ---------- */

type CreateFeatureRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Category    string `json:"category"`

	PricingType    string   `json:"pricing_type" validate:"required"`
	FlatPrice      *float64 `json:"flat_price,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`

	SupportsQuantity   bool   `json:"supports_quantity"`
	ForAllProjectTypes bool   `json:"for_all_project_types"`
	ProjectTypeID      *int64 `json:"project_type_id,omitempty"`

	// Junction assignments; used when the feature belongs to several, but
	// not all, project types.
	ProjectTypeIDs []int64 `json:"project_type_ids,omitempty"`
}

type UpdateFeatureRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`

	PricingType    *string  `json:"pricing_type,omitempty"`
	FlatPrice      *float64 `json:"flat_price,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`

	SupportsQuantity   *bool  `json:"supports_quantity,omitempty"`
	ForAllProjectTypes *bool  `json:"for_all_project_types,omitempty"`
	ProjectTypeID      *int64 `json:"project_type_id,omitempty"`

	ProjectTypeIDs []int64 `json:"project_type_ids,omitempty"`
}

/* ---------- PAGES ---------- */

type CreatePageRequest struct {
	Name            string  `json:"name" validate:"required,min=2"`
	Description     string  `json:"description"`
	PricePerPage    float64 `json:"price_per_page" validate:"gte=0"`
	DefaultQuantity int     `json:"default_quantity"`

	SupportsQuantity bool   `json:"supports_quantity"`
	IsActive         *bool  `json:"is_active,omitempty"`
	ProjectTypeID    *int64 `json:"project_type_id,omitempty"`
}

type UpdatePageRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	PricePerPage    *float64 `json:"price_per_page,omitempty"`
	DefaultQuantity *int     `json:"default_quantity,omitempty"`

	SupportsQuantity *bool  `json:"supports_quantity,omitempty"`
	IsActive         *bool  `json:"is_active,omitempty"`
	ProjectTypeID    *int64 `json:"project_type_id,omitempty"`
}
