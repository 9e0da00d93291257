package quote

import (
	"math"

	"webquote/internal/domain"
)

// The calculator is pure: catalog rules and a quantity in, money out.
// Line prices are frozen at write time; these helpers are the only place
// a price is ever derived.

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// FeatureLinePrice derives the frozen total of a feature line. Flat pricing
// is FlatPrice×qty, hourly is HourlyRate×EstimatedHours×qty. Unset factors
// count as zero rather than failing.
func FeatureLinePrice(f *domain.Feature, quantity int) float64 {
	q := float64(quantity)
	switch f.PricingType {
	case domain.PricingHourly:
		return round2(deref(f.HourlyRate) * deref(f.EstimatedHours) * q)
	case domain.PricingFlat:
		return round2(deref(f.FlatPrice) * q)
	}
	return 0
}

// PageLinePrice derives the frozen total of a page line.
func PageLinePrice(p *domain.Page, quantity int) float64 {
	return round2(p.PricePerPage * float64(quantity))
}

// Total sums the base price and both line collections. A quote whose project
// type is gone passes base 0.
func Total(basePrice float64, features []domain.QuoteFeature, pages []domain.QuotePage) float64 {
	total := basePrice
	for _, line := range features {
		total += line.Price
	}
	for _, line := range pages {
		total += line.Price
	}
	return round2(total)
}
