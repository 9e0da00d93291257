package catalog

import (
	"context"
	"strings"

	"webquote/internal/domain"
	"webquote/internal/repository"
)

type Service struct {
	projectTypes *repository.ProjectTypeRepository
	features     *repository.FeatureRepository
	pages        *repository.PageRepository
}

func NewService(
	projectTypes *repository.ProjectTypeRepository,
	features *repository.FeatureRepository,
	pages *repository.PageRepository,
) *Service {
	return &Service{
		projectTypes: projectTypes,
		features:     features,
		pages:        pages,
	}
}

/* ---------- PROJECT TYPES ---------- */

func (s *Service) ListProjectTypes(ctx context.Context) ([]domain.ProjectType, error) {
	return s.projectTypes.GetAll(ctx)
}

func (s *Service) GetProjectType(ctx context.Context, id int64) (*domain.ProjectType, error) {
	pt, err := s.projectTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, ErrNotFound
	}
	return pt, nil
}

func (s *Service) CreateProjectType(ctx context.Context, req CreateProjectTypeRequest) (*domain.ProjectType, error) {
	if len(strings.TrimSpace(req.Name)) < 2 || req.BasePrice < 0 {
		return nil, ErrValidation
	}

	pt := &domain.ProjectType{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
	}
	if err := s.projectTypes.Create(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Service) UpdateProjectType(ctx context.Context, id int64, req UpdateProjectTypeRequest) (*domain.ProjectType, error) {
	pt, err := s.GetProjectType(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if len(strings.TrimSpace(*req.Name)) < 2 {
			return nil, ErrValidation
		}
		pt.Name = *req.Name
	}
	if req.Description != nil {
		pt.Description = *req.Description
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, ErrValidation
		}
		pt.BasePrice = *req.BasePrice
	}

	if err := s.projectTypes.Update(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// DeleteProjectType removes the type; features and pages that referenced it
// survive with a nulled reference rather than failing or cascading.
func (s *Service) DeleteProjectType(ctx context.Context, id int64) error {
	if _, err := s.GetProjectType(ctx, id); err != nil {
		return err
	}
	return s.projectTypes.Delete(ctx, id)
}

/* ---------- FEATURES ---------- */

func (s *Service) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	return s.features.GetAll(ctx)
}

func (s *Service) GetFeature(ctx context.Context, id int64) (*domain.Feature, error) {
	f, err := s.features.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *Service) CreateFeature(ctx context.Context, req CreateFeatureRequest) (*domain.Feature, error) {
	if len(strings.TrimSpace(req.Name)) < 2 {
		return nil, ErrValidation
	}
	pricingType, ok := domain.ParsePricingType(req.PricingType)
	if !ok {
		return nil, ErrInvalidPricingType
	}

	// Only the active mode's fields matter; the other mode's are stored
	// as sent and ignored at pricing time.
	f := &domain.Feature{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		PricingType:        pricingType,
		FlatPrice:          req.FlatPrice,
		HourlyRate:         req.HourlyRate,
		EstimatedHours:     req.EstimatedHours,
		SupportsQuantity:   req.SupportsQuantity,
		ForAllProjectTypes: req.ForAllProjectTypes,
		ProjectTypeID:      req.ProjectTypeID,
	}
	if err := s.features.Create(ctx, f); err != nil {
		return nil, err
	}

	if len(req.ProjectTypeIDs) > 0 {
		if err := s.features.ReplaceProjectTypes(ctx, f.ID, req.ProjectTypeIDs); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *Service) UpdateFeature(ctx context.Context, id int64, req UpdateFeatureRequest) (*domain.Feature, error) {
	f, err := s.GetFeature(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if len(strings.TrimSpace(*req.Name)) < 2 {
			return nil, ErrValidation
		}
		f.Name = *req.Name
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.Category != nil {
		f.Category = *req.Category
	}
	if req.PricingType != nil {
		pricingType, ok := domain.ParsePricingType(*req.PricingType)
		if !ok {
			return nil, ErrInvalidPricingType
		}
		f.PricingType = pricingType
	}
	if req.FlatPrice != nil {
		f.FlatPrice = req.FlatPrice
	}
	if req.HourlyRate != nil {
		f.HourlyRate = req.HourlyRate
	}
	if req.EstimatedHours != nil {
		f.EstimatedHours = req.EstimatedHours
	}
	if req.SupportsQuantity != nil {
		f.SupportsQuantity = *req.SupportsQuantity
	}
	if req.ForAllProjectTypes != nil {
		f.ForAllProjectTypes = *req.ForAllProjectTypes
	}
	if req.ProjectTypeID != nil {
		f.ProjectTypeID = req.ProjectTypeID
	}

	if err := s.features.Update(ctx, f); err != nil {
		return nil, err
	}

	if req.ProjectTypeIDs != nil {
		if err := s.features.ReplaceProjectTypes(ctx, f.ID, req.ProjectTypeIDs); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *Service) DeleteFeature(ctx context.Context, id int64) error {
	if _, err := s.GetFeature(ctx, id); err != nil {
		return err
	}
	return s.features.Delete(ctx, id)
}

/* ---------- PAGES ---------- */

func (s *Service) ListPages(ctx context.Context) ([]domain.Page, error) {
	return s.pages.GetAll(ctx)
}

func (s *Service) GetPage(ctx context.Context, id int64) (*domain.Page, error) {
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) CreatePage(ctx context.Context, req CreatePageRequest) (*domain.Page, error) {
	if len(strings.TrimSpace(req.Name)) < 2 || req.PricePerPage < 0 {
		return nil, ErrValidation
	}

	defaultQty := req.DefaultQuantity
	if defaultQty < 1 {
		defaultQty = 1
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p := &domain.Page{
		Name:             req.Name,
		Description:      req.Description,
		PricePerPage:     req.PricePerPage,
		DefaultQuantity:  defaultQty,
		SupportsQuantity: req.SupportsQuantity,
		IsActive:         isActive,
		ProjectTypeID:    req.ProjectTypeID,
	}
	if err := s.pages.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePage(ctx context.Context, id int64, req UpdatePageRequest) (*domain.Page, error) {
	p, err := s.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if len(strings.TrimSpace(*req.Name)) < 2 {
			return nil, ErrValidation
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PricePerPage != nil {
		if *req.PricePerPage < 0 {
			return nil, ErrValidation
		}
		p.PricePerPage = *req.PricePerPage
	}
	if req.DefaultQuantity != nil {
		if *req.DefaultQuantity < 1 {
			return nil, ErrValidation
		}
		p.DefaultQuantity = *req.DefaultQuantity
	}
	if req.SupportsQuantity != nil {
		p.SupportsQuantity = *req.SupportsQuantity
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.ProjectTypeID != nil {
		p.ProjectTypeID = req.ProjectTypeID
	}

	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePage(ctx context.Context, id int64) error {
	if _, err := s.GetPage(ctx, id); err != nil {
		return err
	}
	return s.pages.Delete(ctx, id)
}

/* ---------- ELIGIBILITY ---------- */

// ResolveFeaturesForProjectType merges the three assignment rules (direct
// single assignment, the for-all flag, and junction rows) into one list.
// A feature matching several rules appears once, in first-match order:
// direct, then global, then junction.
func (s *Service) ResolveFeaturesForProjectType(ctx context.Context, projectTypeID int64) ([]domain.Feature, error) {
	if _, err := s.GetProjectType(ctx, projectTypeID); err != nil {
		return nil, err
	}

	direct, err := s.features.ListDirect(ctx, projectTypeID)
	if err != nil {
		return nil, err
	}
	global, err := s.features.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}
	junction, err := s.features.ListByJunction(ctx, projectTypeID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	merged := make([]domain.Feature, 0, len(direct)+len(global)+len(junction))
	for _, batch := range [][]domain.Feature{direct, global, junction} {
		for _, f := range batch {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			merged = append(merged, f)
		}
	}
	return merged, nil
}

// ResolvePagesForProjectType returns the active pages orderable on the
// project type: directly assigned ones plus the universal (unassigned) ones.
func (s *Service) ResolvePagesForProjectType(ctx context.Context, projectTypeID int64) ([]domain.Page, error) {
	if _, err := s.GetProjectType(ctx, projectTypeID); err != nil {
		return nil, err
	}
	return s.pages.ListForProjectType(ctx, projectTypeID)
}
