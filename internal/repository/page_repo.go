package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webquote/internal/domain"
)

type PageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) GetAll(ctx context.Context) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).Order("name").Find(&pages).Error
	return pages, err
}

func (r *PageRepository) GetByID(ctx context.Context, id int64) (*domain.Page, error) {
	var p domain.Page
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepository) Create(ctx context.Context, p *domain.Page) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PageRepository) Update(ctx context.Context, p *domain.Page) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a page and every quote line that selected it. Parent quote
// totals keep their last written value until an explicit recompute.
func (r *PageRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).
			Delete(&domain.QuotePage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Page{}, id).Error
	})
}

// ListForProjectType returns the active pages offered on a project type:
// pages assigned to it directly plus pages with no assignment at all.
func (r *PageRepository) ListForProjectType(ctx context.Context, projectTypeID int64) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("project_type_id = ? OR project_type_id IS NULL", projectTypeID).
		Order("name").
		Find(&pages).Error
	return pages, err
}
