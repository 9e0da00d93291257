package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"webquote/internal/domain"
)

type QuoteFilters struct {
	CreatedBy string
	Status    domain.LeadStatus
	Limit     int
	Offset    int
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Transaction runs fn against a repository bound to one database transaction.
// Services use it to keep a line-item write and the total recompute atomic.
func (r *QuoteRepository) Transaction(ctx context.Context, fn func(tx *QuoteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&QuoteRepository{db: tx})
	})
}

// CreateWithLines persists the header and its initial line items as one unit.
// gorm cascades the association inserts inside the surrounding transaction.
func (r *QuoteRepository) CreateWithLines(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Features").
		Preload("Features.Feature").
		Preload("Pages").
		Preload("Pages.Page").
		First(&quote, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetAll returns quotes with optional creator/status filters.
func (r *QuoteRepository) GetAll(ctx context.Context, f QuoteFilters) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Quote{})

	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}
	if f.Status != "" {
		q = q.Where("lead_status = ?", f.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&quotes).Error

	return quotes, total, err
}

func (r *QuoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit("Features", "Pages").Save(quote).Error
}

// UpdateStatus patches the lead status only, stamping the editor.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lead_status": status,
			"updated_by":  updatedBy,
			"updated_at":  time.Now(),
		}).Error
}

// UpdateTotal writes the cached derived total along with the audit stamp.
func (r *QuoteRepository) UpdateTotal(ctx context.Context, id int64, total float64, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_price": total,
			"updated_by":  updatedBy,
			"updated_at":  time.Now(),
		}).Error
}

// Delete removes a quote and both line collections.
func (r *QuoteRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).
			Delete(&domain.QuoteFeature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", id).
			Delete(&domain.QuotePage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, id).Error
	})
}

/* ---------- FEATURE LINES ---------- */

func (r *QuoteRepository) GetFeatureLine(ctx context.Context, quoteID, featureID int64) (*domain.QuoteFeature, error) {
	var line domain.QuoteFeature
	err := r.db.WithContext(ctx).
		Where("quote_id = ? AND feature_id = ?", quoteID, featureID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *QuoteRepository) CreateFeatureLine(ctx context.Context, line *domain.QuoteFeature) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *QuoteRepository) SaveFeatureLine(ctx context.Context, line *domain.QuoteFeature) error {
	return r.db.WithContext(ctx).Omit("Feature").Save(line).Error
}

func (r *QuoteRepository) DeleteFeatureLine(ctx context.Context, quoteID, featureID int64) error {
	return r.db.WithContext(ctx).
		Where("quote_id = ? AND feature_id = ?", quoteID, featureID).
		Delete(&domain.QuoteFeature{}).Error
}

/* ---------- PAGE LINES ---------- */

func (r *QuoteRepository) GetPageLine(ctx context.Context, quoteID, pageID int64) (*domain.QuotePage, error) {
	var line domain.QuotePage
	err := r.db.WithContext(ctx).
		Where("quote_id = ? AND page_id = ?", quoteID, pageID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *QuoteRepository) CreatePageLine(ctx context.Context, line *domain.QuotePage) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *QuoteRepository) SavePageLine(ctx context.Context, line *domain.QuotePage) error {
	return r.db.WithContext(ctx).Omit("Page").Save(line).Error
}

func (r *QuoteRepository) DeletePageLine(ctx context.Context, quoteID, pageID int64) error {
	return r.db.WithContext(ctx).
		Where("quote_id = ? AND page_id = ?", quoteID, pageID).
		Delete(&domain.QuotePage{}).Error
}

// IsDuplicateKey reports whether err is the unique-index violation raised
// when the same catalog item is added to a quote twice.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
