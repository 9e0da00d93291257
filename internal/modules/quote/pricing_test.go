package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"webquote/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestFeatureLinePrice_Flat(t *testing.T) {
	f := &domain.Feature{PricingType: domain.PricingFlat, FlatPrice: fptr(500)}

	assert.Equal(t, 500.0, FeatureLinePrice(f, 1))
	assert.Equal(t, 1000.0, FeatureLinePrice(f, 2))
}

func TestFeatureLinePrice_FlatNilPriceIsZero(t *testing.T) {
	f := &domain.Feature{PricingType: domain.PricingFlat}

	assert.Equal(t, 0.0, FeatureLinePrice(f, 3))
}

func TestFeatureLinePrice_Hourly(t *testing.T) {
	f := &domain.Feature{
		PricingType:    domain.PricingHourly,
		HourlyRate:     fptr(120),
		EstimatedHours: fptr(10),
	}

	assert.Equal(t, 1200.0, FeatureLinePrice(f, 1))
	assert.Equal(t, 2400.0, FeatureLinePrice(f, 2))
}

func TestFeatureLinePrice_HourlyNilFactorIsZero(t *testing.T) {
	onlyRate := &domain.Feature{PricingType: domain.PricingHourly, HourlyRate: fptr(120)}
	onlyHours := &domain.Feature{PricingType: domain.PricingHourly, EstimatedHours: fptr(10)}

	assert.Equal(t, 0.0, FeatureLinePrice(onlyRate, 2))
	assert.Equal(t, 0.0, FeatureLinePrice(onlyHours, 2))
}

func TestFeatureLinePrice_HourlyIgnoresFlatPrice(t *testing.T) {
	f := &domain.Feature{
		PricingType:    domain.PricingHourly,
		FlatPrice:      fptr(9999),
		HourlyRate:     fptr(50),
		EstimatedHours: fptr(2),
	}

	assert.Equal(t, 100.0, FeatureLinePrice(f, 1))
}

func TestFeatureLinePrice_Rounding(t *testing.T) {
	f := &domain.Feature{
		PricingType:    domain.PricingHourly,
		HourlyRate:     fptr(33.335),
		EstimatedHours: fptr(1),
	}

	assert.Equal(t, 100.01, FeatureLinePrice(f, 3))
}

func TestPageLinePrice(t *testing.T) {
	p := &domain.Page{PricePerPage: 200}

	assert.Equal(t, 200.0, PageLinePrice(p, 1))
	assert.Equal(t, 600.0, PageLinePrice(p, 3))
}

func TestTotal(t *testing.T) {
	features := []domain.QuoteFeature{{Price: 1000}, {Price: 250.50}}
	pages := []domain.QuotePage{{Price: 600}}

	assert.Equal(t, 2850.50, Total(1000, features, pages))
}

func TestTotal_NoBasePrice(t *testing.T) {
	features := []domain.QuoteFeature{{Price: 500}}

	assert.Equal(t, 500.0, Total(0, features, nil))
}

func TestTotal_EmptyQuote(t *testing.T) {
	assert.Equal(t, 1000.0, Total(1000, nil, nil))
}
