package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webquote/internal/domain"
	"webquote/internal/repository"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) FeatureUsage(ctx context.Context, w repository.ReportWindow) ([]repository.FeatureUsageRow, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]repository.FeatureUsageRow), args.Error(1)
}

func (m *mockReportRepo) SalesPerformance(ctx context.Context, w repository.ReportWindow) ([]repository.SalesPerformanceRow, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]repository.SalesPerformanceRow), args.Error(1)
}

var (
	adminIdent = domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	userIdent  = domain.Identity{ID: 2, Username: "jordan", Role: domain.RoleUser}
)

func TestFeatureUsage_AdminOnly(t *testing.T) {
	repo := new(mockReportRepo)
	service := NewService(repo)

	_, err := service.FeatureUsage(context.Background(), userIdent, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "FeatureUsage", mock.Anything, mock.Anything)
}

func TestFeatureUsage_PassesWindow(t *testing.T) {
	repo := new(mockReportRepo)
	rows := []repository.FeatureUsageRow{
		{FeatureID: 1, FeatureName: "SEO Setup", QuoteCount: 4, Revenue: 2000},
	}
	repo.On("FeatureUsage", mock.Anything, repository.ReportWindow{}).Return(rows, nil)

	service := NewService(repo)
	got, err := service.FeatureUsage(context.Background(), adminIdent, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	repo.AssertExpectations(t)
}

func TestSalesPerformance_AdminOnly(t *testing.T) {
	repo := new(mockReportRepo)
	service := NewService(repo)

	_, err := service.SalesPerformance(context.Background(), userIdent, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSalesPerformance_ConversionRate(t *testing.T) {
	repo := new(mockReportRepo)
	repo.On("SalesPerformance", mock.Anything, repository.ReportWindow{}).Return([]repository.SalesPerformanceRow{
		{Username: "jordan", QuoteCount: 3, Revenue: 4500, WonCount: 1, LostCount: 1},
		{Username: "casey", QuoteCount: 0, Revenue: 0, WonCount: 0, LostCount: 0},
	}, nil)

	service := NewService(repo)
	entries, err := service.SalesPerformance(context.Background(), adminIdent, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 0.3333, entries[0].ConversionRate)
	assert.Equal(t, 0.0, entries[1].ConversionRate)
}
