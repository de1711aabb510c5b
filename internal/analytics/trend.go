package analytics

import "github.com/andresuchdata/retail-forecast/backend-go/internal/domain"

// CompileTrend reshapes trend points into parallel label/value slices for a
// chart. Input order is kept as is.
func CompileTrend(points []domain.MonthlyTrendPoint) domain.TrendSeries {
	series := domain.TrendSeries{
		Labels: make([]string, 0, len(points)),
		Values: make([]int, 0, len(points)),
	}
	for _, p := range points {
		series.Labels = append(series.Labels, p.Month)
		series.Values = append(series.Values, p.Sales)
	}
	return series
}
