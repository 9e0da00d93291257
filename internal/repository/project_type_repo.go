package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webquote/internal/domain"
)

type ProjectTypeRepository struct {
	db *gorm.DB
}

func NewProjectTypeRepository(db *gorm.DB) *ProjectTypeRepository {
	return &ProjectTypeRepository{db: db}
}

func (r *ProjectTypeRepository) GetAll(ctx context.Context) ([]domain.ProjectType, error) {
	var types []domain.ProjectType
	err := r.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}

func (r *ProjectTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ProjectType, error) {
	var pt domain.ProjectType
	err := r.db.WithContext(ctx).First(&pt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *ProjectTypeRepository) Create(ctx context.Context, pt *domain.ProjectType) error {
	return r.db.WithContext(ctx).Create(pt).Error
}

func (r *ProjectTypeRepository) Update(ctx context.Context, pt *domain.ProjectType) error {
	return r.db.WithContext(ctx).Save(pt).Error
}

// Delete removes a project type. Features and pages pointing at it keep
// existing with a nulled reference; junction rows go away with the parent.
func (r *ProjectTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Feature{}).
			Where("project_type_id = ?", id).
			Update("project_type_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Page{}).
			Where("project_type_id = ?", id).
			Update("project_type_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("project_type_id = ?", id).
			Delete(&domain.FeatureProjectType{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.ProjectType{}, id).Error
	})
}
