package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"webquote/internal/domain"
)

type FeatureRepository struct {
	db *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (r *FeatureRepository) GetAll(ctx context.Context) ([]domain.Feature, error) {
	var features []domain.Feature
	err := r.db.WithContext(ctx).Order("name").Find(&features).Error
	return features, err
}

func (r *FeatureRepository) GetByID(ctx context.Context, id int64) (*domain.Feature, error) {
	var f domain.Feature
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FeatureRepository) Create(ctx context.Context, f *domain.Feature) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeatureRepository) Update(ctx context.Context, f *domain.Feature) error {
	return r.db.WithContext(ctx).Save(f).Error
}

// Delete removes a feature together with its junction rows and every quote
// line that selected it. Quote totals are deliberately left alone; they stay
// as written until an explicit recompute.
func (r *FeatureRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feature_id = ?", id).
			Delete(&domain.QuoteFeature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_id = ?", id).
			Delete(&domain.FeatureProjectType{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Feature{}, id).Error
	})
}

// ListDirect returns features whose single direct assignment matches the
// project type.
func (r *FeatureRepository) ListDirect(ctx context.Context, projectTypeID int64) ([]domain.Feature, error) {
	var features []domain.Feature
	err := r.db.WithContext(ctx).
		Where("project_type_id = ?", projectTypeID).
		Order("name").
		Find(&features).Error
	return features, err
}

// ListGlobal returns features flagged for all project types, regardless of
// any direct assignment they also carry.
func (r *FeatureRepository) ListGlobal(ctx context.Context) ([]domain.Feature, error) {
	var features []domain.Feature
	err := r.db.WithContext(ctx).
		Where("for_all_project_types = ?", true).
		Order("name").
		Find(&features).Error
	return features, err
}

// ListByJunction returns features assigned to the project type through
// feature_project_types.
func (r *FeatureRepository) ListByJunction(ctx context.Context, projectTypeID int64) ([]domain.Feature, error) {
	var features []domain.Feature
	err := r.db.WithContext(ctx).
		Joins("JOIN feature_project_types fpt ON fpt.feature_id = features.id").
		Where("fpt.project_type_id = ?", projectTypeID).
		Order("features.name").
		Find(&features).Error
	return features, err
}

// GetProjectTypeIDs returns the junction assignments of one feature.
func (r *FeatureRepository) GetProjectTypeIDs(ctx context.Context, featureID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.FeatureProjectType{}).
		Where("feature_id = ?", featureID).
		Pluck("project_type_id", &ids).Error
	return ids, err
}

// ReplaceProjectTypes rewrites the junction assignments of one feature.
func (r *FeatureRepository) ReplaceProjectTypes(ctx context.Context, featureID int64, projectTypeIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feature_id = ?", featureID).
			Delete(&domain.FeatureProjectType{}).Error; err != nil {
			return err
		}
		for _, ptID := range projectTypeIDs {
			row := domain.FeatureProjectType{FeatureID: featureID, ProjectTypeID: ptID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
