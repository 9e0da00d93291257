package quote

import (
	"context"
	"strings"
	"time"

	"webquote/internal/domain"
	"webquote/internal/repository"
)

type Service struct {
	quotes       *repository.QuoteRepository
	features     *repository.FeatureRepository
	pages        *repository.PageRepository
	projectTypes *repository.ProjectTypeRepository
}

func NewService(
	quotes *repository.QuoteRepository,
	features *repository.FeatureRepository,
	pages *repository.PageRepository,
	projectTypes *repository.ProjectTypeRepository,
) *Service {
	return &Service{
		quotes:       quotes,
		features:     features,
		pages:        pages,
		projectTypes: projectTypes,
	}
}

/* ---------- AGGREGATE ---------- */

// CreateQuote builds the header and all initial line items, prices them from
// the current catalog and persists everything as one unit.
func (s *Service) CreateQuote(ctx context.Context, ident domain.Identity, req CreateQuoteRequest) (*domain.Quote, error) {
	if len(strings.TrimSpace(req.ClientName)) < 2 || strings.TrimSpace(req.Email) == "" {
		return nil, ErrValidation
	}

	basePrice := 0.0
	if req.ProjectTypeID != nil {
		pt, err := s.projectTypes.GetByID(ctx, *req.ProjectTypeID)
		if err != nil {
			return nil, err
		}
		if pt == nil {
			return nil, ErrItemNotFound
		}
		basePrice = pt.BasePrice
	}

	featureLines := make([]domain.QuoteFeature, 0, len(req.Features))
	seenFeatures := make(map[int64]bool, len(req.Features))
	for _, sel := range req.Features {
		if seenFeatures[sel.FeatureID] {
			return nil, ErrDuplicateLine
		}
		seenFeatures[sel.FeatureID] = true

		f, err := s.features.GetByID(ctx, sel.FeatureID)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, ErrItemNotFound
		}

		qty, err := normalizeQuantity(sel.Quantity, f.SupportsQuantity, 1)
		if err != nil {
			return nil, err
		}
		featureLines = append(featureLines, domain.QuoteFeature{
			FeatureID: f.ID,
			Quantity:  qty,
			Price:     FeatureLinePrice(f, qty),
		})
	}

	pageLines := make([]domain.QuotePage, 0, len(req.Pages))
	seenPages := make(map[int64]bool, len(req.Pages))
	for _, sel := range req.Pages {
		if seenPages[sel.PageID] {
			return nil, ErrDuplicateLine
		}
		seenPages[sel.PageID] = true

		p, err := s.pages.GetByID(ctx, sel.PageID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrItemNotFound
		}

		qty, err := normalizeQuantity(sel.Quantity, p.SupportsQuantity, p.DefaultQuantity)
		if err != nil {
			return nil, err
		}
		pageLines = append(pageLines, domain.QuotePage{
			PageID:   p.ID,
			Quantity: qty,
			Price:    PageLinePrice(p, qty),
		})
	}

	quote := &domain.Quote{
		ProjectTypeID: req.ProjectTypeID,
		ClientName:    req.ClientName,
		BusinessName:  req.BusinessName,
		Email:         req.Email,
		Phone:         req.Phone,
		Notes:         req.Notes,
		InternalNotes: req.InternalNotes,
		LeadStatus:    domain.LeadInProgress,
		TotalPrice:    Total(basePrice, featureLines, pageLines),
		CreatedBy:     ident.Username,
		Features:      featureLines,
		Pages:         pageLines,
	}

	if err := s.quotes.CreateWithLines(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *Service) GetQuote(ctx context.Context, ident domain.Identity, id int64) (*domain.Quote, error) {
	return s.authorize(ctx, ident, id)
}

// ListQuotes returns quotes visible to the caller; non-admins only ever see
// their own.
func (s *Service) ListQuotes(ctx context.Context, ident domain.Identity, f ListFilters) ([]domain.Quote, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	filters := repository.QuoteFilters{
		Limit:  f.Limit,
		Offset: (f.Page - 1) * f.Limit,
	}
	if f.Status != "" {
		status, ok := domain.ParseLeadStatus(f.Status)
		if !ok {
			return nil, 0, ErrInvalidStatus
		}
		filters.Status = status
	}
	if !ident.IsAdmin() {
		filters.CreatedBy = ident.Username
	}

	return s.quotes.GetAll(ctx, filters)
}

// UpdateQuote patches header fields. It never recomputes lines, and it only
// touches TotalPrice when the caller sent one explicitly.
func (s *Service) UpdateQuote(ctx context.Context, ident domain.Identity, id int64, req UpdateQuoteRequest) (*domain.Quote, error) {
	quote, err := s.authorize(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if req.ProjectTypeID != nil {
		pt, err := s.projectTypes.GetByID(ctx, *req.ProjectTypeID)
		if err != nil {
			return nil, err
		}
		if pt == nil {
			return nil, ErrItemNotFound
		}
		quote.ProjectTypeID = req.ProjectTypeID
	}
	if req.ClientName != nil {
		if len(strings.TrimSpace(*req.ClientName)) < 2 {
			return nil, ErrValidation
		}
		quote.ClientName = *req.ClientName
	}
	if req.BusinessName != nil {
		quote.BusinessName = *req.BusinessName
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, ErrValidation
		}
		quote.Email = *req.Email
	}
	if req.Phone != nil {
		quote.Phone = *req.Phone
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}
	if req.InternalNotes != nil {
		quote.InternalNotes = *req.InternalNotes
	}
	if req.LeadStatus != nil {
		status, ok := domain.ParseLeadStatus(*req.LeadStatus)
		if !ok {
			return nil, ErrInvalidStatus
		}
		quote.LeadStatus = status
	}
	if req.TotalPrice != nil {
		quote.TotalPrice = round2(*req.TotalPrice)
	}
	if req.Closed != nil {
		quote.Closed = *req.Closed
	}
	if req.CloseDate != nil {
		quote.CloseDate = req.CloseDate
	}

	quote.UpdatedBy = ident.Username
	quote.UpdatedAt = time.Now()

	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// PatchStatus changes the lead status and nothing else. Any recognized status
// may follow any other; Won and Lost do not freeze the quote.
func (s *Service) PatchStatus(ctx context.Context, ident domain.Identity, id int64, statusStr string) (*domain.Quote, error) {
	quote, err := s.authorize(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	status, ok := domain.ParseLeadStatus(statusStr)
	if !ok {
		return nil, ErrInvalidStatus
	}

	if err := s.quotes.UpdateStatus(ctx, id, status, ident.Username); err != nil {
		return nil, err
	}
	quote.LeadStatus = status
	quote.UpdatedBy = ident.Username
	return quote, nil
}

func (s *Service) DeleteQuote(ctx context.Context, ident domain.Identity, id int64) error {
	if _, err := s.authorize(ctx, ident, id); err != nil {
		return err
	}
	return s.quotes.Delete(ctx, id)
}

// RecomputeTotal re-derives the cached total from the stored line prices and
// the current base price. Line prices themselves stay frozen.
func (s *Service) RecomputeTotal(ctx context.Context, ident domain.Identity, id int64) (float64, error) {
	if _, err := s.authorize(ctx, ident, id); err != nil {
		return 0, err
	}

	var total float64
	err := s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, id, ident.Username)
		return txErr
	})
	return total, err
}

/* ---------- FEATURE LINES ---------- */

func (s *Service) AddFeatureLine(ctx context.Context, ident domain.Identity, quoteID int64, req AddFeatureLineRequest) (*domain.QuoteFeature, float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return nil, 0, err
	}

	existing, err := s.quotes.GetFeatureLine(ctx, quoteID, req.FeatureID)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return nil, 0, ErrDuplicateLine
	}

	f, err := s.features.GetByID(ctx, req.FeatureID)
	if err != nil {
		return nil, 0, err
	}
	if f == nil {
		return nil, 0, ErrItemNotFound
	}

	qty, err := normalizeQuantity(req.Quantity, f.SupportsQuantity, 1)
	if err != nil {
		return nil, 0, err
	}

	line := &domain.QuoteFeature{
		QuoteID:   quoteID,
		FeatureID: f.ID,
		Quantity:  qty,
		Price:     FeatureLinePrice(f, qty),
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.CreateFeatureLine(ctx, line); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrDuplicateLine
			}
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	if err != nil {
		return nil, 0, err
	}
	return line, total, nil
}

// UpdateFeatureLine handles both line write modes: a quantity change
// re-derives the price from today's catalog, a bare price is a manual
// override left alone until the next quantity change.
func (s *Service) UpdateFeatureLine(ctx context.Context, ident domain.Identity, quoteID, featureID int64, req UpdateLineRequest) (*domain.QuoteFeature, float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return nil, 0, err
	}
	if req.Quantity == nil && req.Price == nil {
		return nil, 0, ErrValidation
	}

	line, err := s.quotes.GetFeatureLine(ctx, quoteID, featureID)
	if err != nil {
		return nil, 0, err
	}
	if line == nil {
		return nil, 0, ErrLineNotFound
	}

	if req.Quantity != nil {
		f, err := s.features.GetByID(ctx, featureID)
		if err != nil {
			return nil, 0, err
		}
		if f == nil {
			return nil, 0, ErrItemNotFound
		}
		qty, err := normalizeQuantity(*req.Quantity, f.SupportsQuantity, 0)
		if err != nil {
			return nil, 0, err
		}
		line.Quantity = qty
		line.Price = FeatureLinePrice(f, qty)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, 0, ErrValidation
		}
		line.Price = round2(*req.Price)
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.SaveFeatureLine(ctx, line); err != nil {
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	if err != nil {
		return nil, 0, err
	}
	return line, total, nil
}

func (s *Service) RemoveFeatureLine(ctx context.Context, ident domain.Identity, quoteID, featureID int64) (float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return 0, err
	}

	line, err := s.quotes.GetFeatureLine(ctx, quoteID, featureID)
	if err != nil {
		return 0, err
	}
	if line == nil {
		return 0, ErrLineNotFound
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.DeleteFeatureLine(ctx, quoteID, featureID); err != nil {
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	return total, err
}

/* ---------- PAGE LINES ---------- */

func (s *Service) AddPageLine(ctx context.Context, ident domain.Identity, quoteID int64, req AddPageLineRequest) (*domain.QuotePage, float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return nil, 0, err
	}

	existing, err := s.quotes.GetPageLine(ctx, quoteID, req.PageID)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return nil, 0, ErrDuplicateLine
	}

	p, err := s.pages.GetByID(ctx, req.PageID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, ErrItemNotFound
	}

	qty, err := normalizeQuantity(req.Quantity, p.SupportsQuantity, p.DefaultQuantity)
	if err != nil {
		return nil, 0, err
	}

	line := &domain.QuotePage{
		QuoteID:  quoteID,
		PageID:   p.ID,
		Quantity: qty,
		Price:    PageLinePrice(p, qty),
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.CreatePageLine(ctx, line); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrDuplicateLine
			}
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	if err != nil {
		return nil, 0, err
	}
	return line, total, nil
}

func (s *Service) UpdatePageLine(ctx context.Context, ident domain.Identity, quoteID, pageID int64, req UpdateLineRequest) (*domain.QuotePage, float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return nil, 0, err
	}
	if req.Quantity == nil && req.Price == nil {
		return nil, 0, ErrValidation
	}

	line, err := s.quotes.GetPageLine(ctx, quoteID, pageID)
	if err != nil {
		return nil, 0, err
	}
	if line == nil {
		return nil, 0, ErrLineNotFound
	}

	if req.Quantity != nil {
		p, err := s.pages.GetByID(ctx, pageID)
		if err != nil {
			return nil, 0, err
		}
		if p == nil {
			return nil, 0, ErrItemNotFound
		}
		qty, err := normalizeQuantity(*req.Quantity, p.SupportsQuantity, 0)
		if err != nil {
			return nil, 0, err
		}
		line.Quantity = qty
		line.Price = PageLinePrice(p, qty)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, 0, ErrValidation
		}
		line.Price = round2(*req.Price)
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.SavePageLine(ctx, line); err != nil {
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	if err != nil {
		return nil, 0, err
	}
	return line, total, nil
}

func (s *Service) RemovePageLine(ctx context.Context, ident domain.Identity, quoteID, pageID int64) (float64, error) {
	if _, err := s.authorize(ctx, ident, quoteID); err != nil {
		return 0, err
	}

	line, err := s.quotes.GetPageLine(ctx, quoteID, pageID)
	if err != nil {
		return 0, err
	}
	if line == nil {
		return 0, ErrLineNotFound
	}

	var total float64
	err = s.quotes.Transaction(ctx, func(tx *repository.QuoteRepository) error {
		if err := tx.DeletePageLine(ctx, quoteID, pageID); err != nil {
			return err
		}
		var txErr error
		total, txErr = s.recomputeTotal(ctx, tx, quoteID, ident.Username)
		return txErr
	})
	return total, err
}

/* ---------- HELPERS ---------- */

// authorize loads the quote and applies the access guard before any
// mutation. Admins pass, everyone else must be the creator.
func (s *Service) authorize(ctx context.Context, ident domain.Identity, quoteID int64) (*domain.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrNotFound
	}
	if !quote.CanAccess(ident) {
		return nil, ErrForbidden
	}
	return quote, nil
}

// recomputeTotal re-reads the quote's lines inside the transaction, adds the
// current base price (0 when the project type is gone) and persists the
// cached total with the audit stamp.
func (s *Service) recomputeTotal(ctx context.Context, tx *repository.QuoteRepository, quoteID int64, updatedBy string) (float64, error) {
	quote, err := tx.GetByID(ctx, quoteID)
	if err != nil {
		return 0, err
	}
	if quote == nil {
		return 0, ErrNotFound
	}

	basePrice := 0.0
	if quote.ProjectTypeID != nil {
		pt, err := s.projectTypes.GetByID(ctx, *quote.ProjectTypeID)
		if err != nil {
			return 0, err
		}
		if pt != nil {
			basePrice = pt.BasePrice
		}
	}

	total := Total(basePrice, quote.Features, quote.Pages)
	return total, tx.UpdateTotal(ctx, quoteID, total, updatedBy)
}

func normalizeQuantity(qty int, supportsQuantity bool, fallback int) (int, error) {
	if qty == 0 && fallback > 0 {
		qty = fallback
	}
	if !supportsQuantity {
		qty = 1
	}
	if qty < 1 {
		return 0, ErrValidation
	}
	return qty, nil
}
