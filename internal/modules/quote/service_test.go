package quote

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

var (
	adminIdent = domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	ownerIdent = domain.Identity{ID: 2, Username: "jordan", Role: domain.RoleUser}
	otherIdent = domain.Identity{ID: 3, Username: "casey", Role: domain.RoleUser}
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	service := NewService(
		repository.NewQuoteRepository(db),
		repository.NewFeatureRepository(db),
		repository.NewPageRepository(db),
		repository.NewProjectTypeRepository(db),
	)
	return service, db
}

func seedProjectType(t *testing.T, db *gorm.DB, name string, basePrice float64) *domain.ProjectType {
	t.Helper()
	pt := &domain.ProjectType{Name: name, BasePrice: basePrice}
	require.NoError(t, db.Create(pt).Error)
	return pt
}

func seedFlatFeature(t *testing.T, db *gorm.DB, name string, price float64, supportsQty bool) *domain.Feature {
	t.Helper()
	f := &domain.Feature{
		Name:             name,
		PricingType:      domain.PricingFlat,
		FlatPrice:        fptr(price),
		SupportsQuantity: supportsQty,
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

func seedPage(t *testing.T, db *gorm.DB, name string, price float64, defaultQty int) *domain.Page {
	t.Helper()
	p := &domain.Page{
		Name:             name,
		PricePerPage:     price,
		DefaultQuantity:  defaultQty,
		SupportsQuantity: true,
		IsActive:         true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateQuote_ComputesTotal(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	pt := seedProjectType(t, db, "Brochure Site", 1000)
	f := seedFlatFeature(t, db, "SEO Setup", 500, true)
	p := seedPage(t, db, "Landing Page", 200, 1)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ProjectTypeID: &pt.ID,
		ClientName:    "Acme Bakery",
		Email:         "owner@acme.example",
		Features:      []FeatureSelection{{FeatureID: f.ID, Quantity: 2}},
		Pages:         []PageSelection{{PageID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// 1000 base + 500×2 + 200×3
	assert.Equal(t, 2600.0, quote.TotalPrice)
	assert.Equal(t, domain.LeadInProgress, quote.LeadStatus)
	assert.Equal(t, "jordan", quote.CreatedBy)

	stored, err := service.GetQuote(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 2600.0, stored.TotalPrice)
	require.Len(t, stored.Features, 1)
	assert.Equal(t, 1000.0, stored.Features[0].Price)
	require.Len(t, stored.Pages, 1)
	assert.Equal(t, 600.0, stored.Pages[0].Price)
}

func TestCreateQuote_UnknownFeatureRejected(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateQuote(context.Background(), ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: 42, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCreateQuote_PageFallsBackToDefaultQuantity(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	p := seedPage(t, db, "Product Page", 150, 5)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Pages:      []PageSelection{{PageID: p.ID}},
	})
	require.NoError(t, err)

	stored, err := service.GetQuote(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	require.Len(t, stored.Pages, 1)
	assert.Equal(t, 5, stored.Pages[0].Quantity)
	assert.Equal(t, 750.0, stored.Pages[0].Price)
}

func TestAddFeatureLine_DuplicateRejected(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	f := seedFlatFeature(t, db, "Blog", 750, false)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 750.0, quote.TotalPrice)

	_, _, err = service.AddFeatureLine(ctx, ownerIdent, quote.ID, AddFeatureLineRequest{FeatureID: f.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrDuplicateLine)

	stored, err := service.GetQuote(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, stored.TotalPrice)
	assert.Len(t, stored.Features, 1)
}

func TestAccessGuard(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	f := seedFlatFeature(t, db, "SEO Setup", 500, false)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// another non-admin gets nothing
	_, err = service.GetQuote(ctx, otherIdent, quote.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	notes := "sneaky edit"
	_, err = service.UpdateQuote(ctx, otherIdent, quote.ID, UpdateQuoteRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrForbidden)

	err = service.DeleteQuote(ctx, otherIdent, quote.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = service.AddFeatureLine(ctx, otherIdent, quote.ID, AddFeatureLineRequest{FeatureID: f.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	// the owner and any admin pass
	_, err = service.GetQuote(ctx, ownerIdent, quote.ID)
	assert.NoError(t, err)

	_, err = service.GetQuote(ctx, adminIdent, quote.ID)
	assert.NoError(t, err)

	_, err = service.UpdateQuote(ctx, adminIdent, quote.ID, UpdateQuoteRequest{Notes: &notes})
	assert.NoError(t, err)

	assert.NoError(t, service.DeleteQuote(ctx, adminIdent, quote.ID))

	_, err = service.GetQuote(ctx, adminIdent, quote.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFeatureLine_QuantityReDerivesFromCurrentCatalog(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	f := seedFlatFeature(t, db, "SEO Setup", 500, true)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, quote.TotalPrice)

	// admin raises the catalog price after the line was frozen
	require.NoError(t, db.Model(&domain.Feature{}).Where("id = ?", f.ID).Update("flat_price", 600).Error)

	// the frozen line is untouched by the catalog edit alone
	stored, err := service.GetQuote(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stored.Features[0].Price)

	// a quantity change re-derives from the current catalog price
	qty := 2
	line, total, err := service.UpdateFeatureLine(ctx, ownerIdent, quote.ID, f.ID, UpdateLineRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, line.Price)
	assert.Equal(t, 1200.0, total)
}

func TestUpdateFeatureLine_ManualOverride(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	f := seedFlatFeature(t, db, "SEO Setup", 500, true)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// manual override bypasses catalog derivation entirely
	override := 999.0
	line, total, err := service.UpdateFeatureLine(ctx, ownerIdent, quote.ID, f.ID, UpdateLineRequest{Price: &override})
	require.NoError(t, err)
	assert.Equal(t, 999.0, line.Price)
	assert.Equal(t, 999.0, total)

	// a header edit leaves the override in place
	notes := "still negotiating"
	_, err = service.UpdateQuote(ctx, ownerIdent, quote.ID, UpdateQuoteRequest{Notes: &notes})
	require.NoError(t, err)

	stored, err := service.GetQuote(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, stored.Features[0].Price)
	assert.Equal(t, 999.0, stored.TotalPrice)

	// the next quantity change re-derives from the catalog again
	qty := 3
	line, total, err = service.UpdateFeatureLine(ctx, ownerIdent, quote.ID, f.ID, UpdateLineRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, line.Price)
	assert.Equal(t, 1500.0, total)
}

func TestRemoveLines_RecomputesTotal(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	pt := seedProjectType(t, db, "Brochure Site", 1000)
	f := seedFlatFeature(t, db, "SEO Setup", 500, false)
	p := seedPage(t, db, "Landing Page", 200, 1)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ProjectTypeID: &pt.ID,
		ClientName:    "Acme",
		Email:         "a@b.example",
		Features:      []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
		Pages:         []PageSelection{{PageID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 2100.0, quote.TotalPrice)

	total, err := service.RemoveFeatureLine(ctx, ownerIdent, quote.ID, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, total)

	total, err = service.RemovePageLine(ctx, ownerIdent, quote.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, total)

	_, err = service.RemovePageLine(ctx, ownerIdent, quote.ID, p.ID)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestPatchStatus(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
	})
	require.NoError(t, err)

	_, err = service.PatchStatus(ctx, ownerIdent, quote.ID, "Negotiating")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := service.PatchStatus(ctx, ownerIdent, quote.ID, "Won")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadWon, updated.LeadStatus)

	// Won quotes stay editable
	notes := "follow-up scheduled"
	_, err = service.UpdateQuote(ctx, ownerIdent, quote.ID, UpdateQuoteRequest{Notes: &notes})
	assert.NoError(t, err)

	_, err = service.PatchStatus(ctx, ownerIdent, quote.ID, "On Hold")
	assert.NoError(t, err)
}

func TestRecompute_DeletedProjectTypeContributesZero(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	pt := seedProjectType(t, db, "Brochure Site", 1000)
	f := seedFlatFeature(t, db, "SEO Setup", 500, false)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ProjectTypeID: &pt.ID,
		ClientName:    "Acme",
		Email:         "a@b.example",
		Features:      []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 1500.0, quote.TotalPrice)

	require.NoError(t, repository.NewProjectTypeRepository(db).Delete(ctx, pt.ID))

	total, err := service.RecomputeTotal(ctx, ownerIdent, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, total)
}

func TestUpdateQuote_DoesNotClobberTotal(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	f := seedFlatFeature(t, db, "SEO Setup", 500, false)

	quote, err := service.CreateQuote(ctx, ownerIdent, CreateQuoteRequest{
		ClientName: "Acme",
		Email:      "a@b.example",
		Features:   []FeatureSelection{{FeatureID: f.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	notes := "checked in"
	updated, err := service.UpdateQuote(ctx, ownerIdent, quote.ID, UpdateQuoteRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.TotalPrice)
	assert.Equal(t, "jordan", updated.UpdatedBy)

	explicit := 1234.56
	updated, err = service.UpdateQuote(ctx, ownerIdent, quote.ID, UpdateQuoteRequest{TotalPrice: &explicit})
	require.NoError(t, err)
	assert.Equal(t, 1234.56, updated.TotalPrice)
}

func TestListQuotes_NonAdminSeesOwnOnly(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, ident := range []domain.Identity{ownerIdent, ownerIdent, otherIdent} {
		_, err := service.CreateQuote(ctx, ident, CreateQuoteRequest{
			ClientName: "Client of " + ident.Username,
			Email:      ident.Username + "@b.example",
		})
		require.NoError(t, err)
	}

	quotes, total, err := service.ListQuotes(ctx, ownerIdent, ListFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, q := range quotes {
		assert.Equal(t, "jordan", q.CreatedBy)
	}

	_, total, err = service.ListQuotes(ctx, adminIdent, ListFilters{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
