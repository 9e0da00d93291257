package report

import (
	"context"
	"errors"
	"math"
	"time"

	"webquote/internal/domain"
	"webquote/internal/repository"
)

var ErrForbidden = errors.New("forbidden")

// Repository is the read-side the reports aggregate over.
type Repository interface {
	FeatureUsage(ctx context.Context, w repository.ReportWindow) ([]repository.FeatureUsageRow, error)
	SalesPerformance(ctx context.Context, w repository.ReportWindow) ([]repository.SalesPerformanceRow, error)
}

type SalesPerformanceEntry struct {
	Username       string  `json:"username"`
	QuoteCount     int64   `json:"quote_count"`
	Revenue        float64 `json:"revenue"`
	WonCount       int64   `json:"won_count"`
	LostCount      int64   `json:"lost_count"`
	ConversionRate float64 `json:"conversion_rate"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FeatureUsage is admin-only: count and frozen revenue per feature across the
// quotes in the window.
func (s *Service) FeatureUsage(ctx context.Context, ident domain.Identity, from, to *time.Time) ([]repository.FeatureUsageRow, error) {
	if !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.FeatureUsage(ctx, repository.ReportWindow{From: from, To: to})
}

// SalesPerformance is admin-only: per-user pipeline numbers with a derived
// conversion rate (won over total, 0 when the user has no quotes).
func (s *Service) SalesPerformance(ctx context.Context, ident domain.Identity, from, to *time.Time) ([]SalesPerformanceEntry, error) {
	if !ident.IsAdmin() {
		return nil, ErrForbidden
	}

	rows, err := s.repo.SalesPerformance(ctx, repository.ReportWindow{From: from, To: to})
	if err != nil {
		return nil, err
	}

	entries := make([]SalesPerformanceEntry, 0, len(rows))
	for _, row := range rows {
		rate := 0.0
		if row.QuoteCount > 0 {
			rate = math.Round(float64(row.WonCount)/float64(row.QuoteCount)*10000) / 10000
		}
		entries = append(entries, SalesPerformanceEntry{
			Username:       row.Username,
			QuoteCount:     row.QuoteCount,
			Revenue:        row.Revenue,
			WonCount:       row.WonCount,
			LostCount:      row.LostCount,
			ConversionRate: rate,
		})
	}
	return entries, nil
}
