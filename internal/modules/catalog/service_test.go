package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webquote/internal/database"
	"webquote/internal/domain"
	"webquote/internal/repository"
)

func fptr(v float64) *float64 { return &v }

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	service := NewService(
		repository.NewProjectTypeRepository(db),
		repository.NewFeatureRepository(db),
		repository.NewPageRepository(db),
	)
	return service, db
}

func createProjectType(t *testing.T, s *Service, name string, base float64) *domain.ProjectType {
	t.Helper()
	pt, err := s.CreateProjectType(context.Background(), CreateProjectTypeRequest{Name: name, BasePrice: base})
	require.NoError(t, err)
	return pt
}

func TestCreateFeature_InvalidPricingType(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateFeature(context.Background(), CreateFeatureRequest{
		Name:        "SEO Setup",
		PricingType: "subscription",
	})
	assert.ErrorIs(t, err, ErrInvalidPricingType)
}

func TestCreatePage_DefaultQuantityFloor(t *testing.T) {
	service, _ := newTestService(t)

	p, err := service.CreatePage(context.Background(), CreatePageRequest{
		Name:         "Landing Page",
		PricePerPage: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.DefaultQuantity)
	assert.True(t, p.IsActive)
}

func TestResolveFeaturesForProjectType(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	ptA := createProjectType(t, service, "Brochure Site", 1000)
	ptB := createProjectType(t, service, "E-commerce", 3000)

	direct, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "Blog", PricingType: "flat", FlatPrice: fptr(750), ProjectTypeID: &ptA.ID,
	})
	require.NoError(t, err)

	global, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "SEO Setup", PricingType: "flat", FlatPrice: fptr(500), ForAllProjectTypes: true,
	})
	require.NoError(t, err)

	junction, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "CRM Integration", PricingType: "hourly", HourlyRate: fptr(120), EstimatedHours: fptr(10),
		ProjectTypeIDs: []int64{ptA.ID, ptB.ID},
	})
	require.NoError(t, err)

	// matches both the direct rule and a junction row; must appear once
	both, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "Contact Form", PricingType: "flat", FlatPrice: fptr(100),
		ProjectTypeID: &ptA.ID, ProjectTypeIDs: []int64{ptA.ID},
	})
	require.NoError(t, err)

	_, err = service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "Wishlist", PricingType: "flat", FlatPrice: fptr(300), ProjectTypeID: &ptB.ID,
	})
	require.NoError(t, err)

	resolved, err := service.ResolveFeaturesForProjectType(ctx, ptA.ID)
	require.NoError(t, err)

	ids := make([]int64, 0, len(resolved))
	for _, f := range resolved {
		ids = append(ids, f.ID)
	}
	// direct assignments first, then globals, then junction-only rows
	assert.Equal(t, []int64{direct.ID, both.ID, global.ID, junction.ID}, ids)
}

func TestResolveFeaturesForProjectType_UnknownType(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ResolveFeaturesForProjectType(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePagesForProjectType(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	ptA := createProjectType(t, service, "Brochure Site", 1000)
	ptB := createProjectType(t, service, "E-commerce", 3000)

	assigned, err := service.CreatePage(ctx, CreatePageRequest{
		Name: "Landing Page", PricePerPage: 200, ProjectTypeID: &ptA.ID,
	})
	require.NoError(t, err)

	universal, err := service.CreatePage(ctx, CreatePageRequest{
		Name: "Contact Page", PricePerPage: 100,
	})
	require.NoError(t, err)

	inactive := false
	_, err = service.CreatePage(ctx, CreatePageRequest{
		Name: "Legacy Page", PricePerPage: 50, IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = service.CreatePage(ctx, CreatePageRequest{
		Name: "Checkout Page", PricePerPage: 400, ProjectTypeID: &ptB.ID,
	})
	require.NoError(t, err)

	pages, err := service.ResolvePagesForProjectType(ctx, ptA.ID)
	require.NoError(t, err)

	ids := make([]int64, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{assigned.ID, universal.ID}, ids)
}

func TestDeleteProjectType_NullsReferences(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	pt := createProjectType(t, service, "Brochure Site", 1000)

	feature, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "Blog", PricingType: "flat", FlatPrice: fptr(750),
		ProjectTypeID: &pt.ID, ProjectTypeIDs: []int64{pt.ID},
	})
	require.NoError(t, err)

	page, err := service.CreatePage(ctx, CreatePageRequest{
		Name: "Landing Page", PricePerPage: 200, ProjectTypeID: &pt.ID,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProjectType(ctx, pt.ID))

	_, err = service.GetProjectType(ctx, pt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the catalog items survive with the reference nulled
	gotFeature, err := service.GetFeature(ctx, feature.ID)
	require.NoError(t, err)
	assert.Nil(t, gotFeature.ProjectTypeID)

	gotPage, err := service.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPage.ProjectTypeID)

	var junctionCount int64
	require.NoError(t, db.Model(&domain.FeatureProjectType{}).Where("feature_id = ?", feature.ID).Count(&junctionCount).Error)
	assert.Zero(t, junctionCount)
}

func TestDeleteFeature_CascadesQuoteLines(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	feature, err := service.CreateFeature(ctx, CreateFeatureRequest{
		Name: "SEO Setup", PricingType: "flat", FlatPrice: fptr(500),
	})
	require.NoError(t, err)

	quote := &domain.Quote{ClientName: "Acme", Email: "a@b.example", LeadStatus: domain.LeadInProgress, TotalPrice: 500, CreatedBy: "jordan"}
	require.NoError(t, db.Create(quote).Error)
	require.NoError(t, db.Create(&domain.QuoteFeature{QuoteID: quote.ID, FeatureID: feature.ID, Quantity: 1, Price: 500}).Error)

	require.NoError(t, service.DeleteFeature(ctx, feature.ID))

	var lineCount int64
	require.NoError(t, db.Model(&domain.QuoteFeature{}).Where("quote_id = ?", quote.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	// the cached total is left alone until an explicit recompute
	var stored domain.Quote
	require.NoError(t, db.First(&stored, quote.ID).Error)
	assert.Equal(t, 500.0, stored.TotalPrice)
}

func TestDeletePage_CascadesQuoteLines(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	page, err := service.CreatePage(ctx, CreatePageRequest{
		Name: "Landing Page", PricePerPage: 200,
	})
	require.NoError(t, err)

	quote := &domain.Quote{ClientName: "Acme", Email: "a@b.example", LeadStatus: domain.LeadInProgress, TotalPrice: 600, CreatedBy: "jordan"}
	require.NoError(t, db.Create(quote).Error)
	require.NoError(t, db.Create(&domain.QuotePage{QuoteID: quote.ID, PageID: page.ID, Quantity: 3, Price: 600}).Error)

	require.NoError(t, service.DeletePage(ctx, page.ID))

	var lineCount int64
	require.NoError(t, db.Model(&domain.QuotePage{}).Where("quote_id = ?", quote.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestUpdateProjectType_Partial(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	pt := createProjectType(t, service, "Brochure Site", 1000)

	base := 1250.0
	updated, err := service.UpdateProjectType(ctx, pt.ID, UpdateProjectTypeRequest{BasePrice: &base})
	require.NoError(t, err)
	assert.Equal(t, "Brochure Site", updated.Name)
	assert.Equal(t, 1250.0, updated.BasePrice)

	negative := -1.0
	_, err = service.UpdateProjectType(ctx, pt.ID, UpdateProjectTypeRequest{BasePrice: &negative})
	assert.ErrorIs(t, err, ErrValidation)
}
