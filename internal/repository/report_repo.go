package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"webquote/internal/domain"
)

// ReportWindow bounds an aggregation by quote creation time. Nil ends are
// open.
type ReportWindow struct {
	From *time.Time
	To   *time.Time
}

type FeatureUsageRow struct {
	FeatureID   int64   `json:"feature_id"`
	FeatureName string  `json:"feature_name"`
	QuoteCount  int64   `json:"quote_count"`
	Revenue     float64 `json:"revenue"`
}

type SalesPerformanceRow struct {
	Username   string  `json:"username"`
	QuoteCount int64   `json:"quote_count"`
	Revenue    float64 `json:"revenue"`
	WonCount   int64   `json:"won_count"`
	LostCount  int64   `json:"lost_count"`
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// FeatureUsage aggregates how often each feature was quoted and the frozen
// revenue it carries, across all quotes in the window.
func (r *ReportRepository) FeatureUsage(ctx context.Context, w ReportWindow) ([]FeatureUsageRow, error) {
	q := r.db.WithContext(ctx).
		Table("quote_features").
		Select("quote_features.feature_id, features.name AS feature_name, " +
			"COUNT(quote_features.id) AS quote_count, " +
			"COALESCE(SUM(quote_features.price), 0) AS revenue").
		Joins("JOIN features ON features.id = quote_features.feature_id").
		Joins("JOIN quotes ON quotes.id = quote_features.quote_id")

	q = applyWindow(q, w)

	var rows []FeatureUsageRow
	err := q.
		Group("quote_features.feature_id, features.name").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

// SalesPerformance aggregates quote counts, revenue and won/lost outcomes per
// creating user.
func (r *ReportRepository) SalesPerformance(ctx context.Context, w ReportWindow) ([]SalesPerformanceRow, error) {
	q := r.db.WithContext(ctx).
		Table("quotes").
		Select("quotes.created_by AS username, "+
			"COUNT(quotes.id) AS quote_count, "+
			"COALESCE(SUM(quotes.total_price), 0) AS revenue, "+
			"SUM(CASE WHEN quotes.lead_status = ? THEN 1 ELSE 0 END) AS won_count, "+
			"SUM(CASE WHEN quotes.lead_status = ? THEN 1 ELSE 0 END) AS lost_count",
			domain.LeadWon, domain.LeadLost)

	q = applyWindow(q, w)

	var rows []SalesPerformanceRow
	err := q.
		Group("quotes.created_by").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

func applyWindow(q *gorm.DB, w ReportWindow) *gorm.DB {
	if w.From != nil {
		q = q.Where("quotes.created_at >= ?", *w.From)
	}
	if w.To != nil {
		q = q.Where("quotes.created_at < ?", *w.To)
	}
	return q
}
