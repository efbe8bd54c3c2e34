package services

import (
	"math"
	"testing"
	"time"

	"finance-backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeInvoice(t *testing.T) {
	asOf := date(2025, time.June, 30)

	tests := []struct {
		name     string
		due      time.Time
		wantDays int
		wantB    models.AgingBucket
		wantOK   bool
	}{
		{"no due date", time.Time{}, 0, "", false},
		{"due in the future", date(2025, time.July, 15), 0, "", false},
		{"due today", asOf, 0, models.AgingBucketCurrent, true},
		{"one day past", date(2025, time.June, 29), 1, models.AgingBucketCurrent, true},
		{"thirty days past", date(2025, time.May, 31), 30, models.AgingBucketCurrent, true},
		{"thirty-one days past", date(2025, time.May, 30), 31, models.AgingBucket31To60, true},
		{"forty-five days past", date(2025, time.May, 16), 45, models.AgingBucket31To60, true},
		{"sixty days past", date(2025, time.May, 1), 60, models.AgingBucket31To60, true},
		{"sixty-one days past", date(2025, time.April, 30), 61, models.AgingBucket61To90, true},
		{"ninety days past", date(2025, time.April, 1), 90, models.AgingBucket61To90, true},
		{"ninety-one days past", date(2025, time.March, 31), 91, models.AgingBucketOver90, true},
		{"a year past", date(2024, time.June, 30), 365, models.AgingBucketOver90, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, bucket, ok := AgeInvoice(tt.due, asOf)
			if days != tt.wantDays || bucket != tt.wantB || ok != tt.wantOK {
				t.Errorf("AgeInvoice = (%d, %q, %v), want (%d, %q, %v)",
					days, bucket, ok, tt.wantDays, tt.wantB, tt.wantOK)
			}
		})
	}
}

func TestMovingAverageForecast(t *testing.T) {
	history := []models.MonthlyTrend{
		{Year: 2025, Month: 1, Income: 100, Expense: 50},
		{Year: 2025, Month: 2, Income: 200, Expense: 100},
		{Year: 2025, Month: 3, Income: 300, Expense: 150},
	}

	points := MovingAverageForecast{Window: 3}.Project(history, 2)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	first := points[0]
	if first.Year != 2025 || first.Month != 4 {
		t.Errorf("first point at %d-%d, want 2025-4", first.Year, first.Month)
	}
	if first.Income != 200 || first.Expense != 100 {
		t.Errorf("first point income=%v expense=%v, want 200/100", first.Income, first.Expense)
	}
	if !first.Forecast {
		t.Error("projected points must carry Forecast=true")
	}

	// Second month averages months 2, 3 and the first projection.
	second := points[1]
	if second.Month != 5 {
		t.Errorf("second point month = %d, want 5", second.Month)
	}
	if second.Income != 233.33 || second.Expense != 116.67 {
		t.Errorf("second point income=%v expense=%v, want 233.33/116.67", second.Income, second.Expense)
	}
}

func TestMovingAverageForecastTrimsTrailingZeroMonths(t *testing.T) {
	// A full-year series where only January and February have activity. The
	// empty months must not drag the average to zero.
	history := make([]models.MonthlyTrend, 12)
	for i := range history {
		history[i] = models.MonthlyTrend{Year: 2025, Month: i + 1}
	}
	history[0].Income = 100
	history[1].Income = 200

	points := MovingAverageForecast{Window: 2}.Project(history, 1)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].Month != 3 {
		t.Errorf("projection month = %d, want 3", points[0].Month)
	}
	if points[0].Income != 150 {
		t.Errorf("projection income = %v, want 150", points[0].Income)
	}
}

func TestMovingAverageForecastYearRollover(t *testing.T) {
	history := []models.MonthlyTrend{
		{Year: 2025, Month: 12, Income: 90, Expense: 30},
	}
	points := MovingAverageForecast{Window: 3}.Project(history, 1)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].Year != 2026 || points[0].Month != 1 {
		t.Errorf("projection at %d-%d, want 2026-1", points[0].Year, points[0].Month)
	}
	if points[0].Income != 90 {
		t.Errorf("projection income = %v, want 90", points[0].Income)
	}
}

func TestMovingAverageForecastEmptyHistory(t *testing.T) {
	if points := (MovingAverageForecast{Window: 3}).Project(nil, 3); points != nil {
		t.Errorf("expected nil for empty history, got %v", points)
	}
	allZero := []models.MonthlyTrend{{Year: 2025, Month: 1}, {Year: 2025, Month: 2}}
	if points := (MovingAverageForecast{Window: 3}).Project(allZero, 3); points != nil {
		t.Errorf("expected nil for all-zero history, got %v", points)
	}
}

func catTxn(id int64, categoryID int64, amount float64) models.Transaction {
	return models.Transaction{ID: id, CategoryID: &categoryID, Amount: amount}
}

func TestDetectAnomalies(t *testing.T) {
	txns := []models.Transaction{
		catTxn(1, 10, 100),
		catTxn(2, 10, 100),
		catTxn(3, 10, 100),
		catTxn(4, 10, 100),
		catTxn(5, 10, 100),
		catTxn(6, 10, 1000), // the outlier
	}

	anomalies := DetectAnomalies(txns, 0) // 0 falls back to the default threshold
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(anomalies))
	}
	a := anomalies[0]
	if a.Transaction.ID != 6 {
		t.Errorf("flagged transaction %d, want 6", a.Transaction.ID)
	}
	if a.CategoryMean != 250 {
		t.Errorf("category mean = %v, want 250", a.CategoryMean)
	}
	if math.Abs(a.Deviation-2.24) > 0.001 {
		t.Errorf("deviation = %v, want 2.24", a.Deviation)
	}
}

func TestDetectAnomaliesSkipsSmallAndUniformCategories(t *testing.T) {
	txns := []models.Transaction{
		// Two transactions only: never flagged regardless of spread.
		catTxn(1, 10, 1),
		catTxn(2, 10, 100000),
		// Uniform amounts: zero standard deviation, never flagged.
		catTxn(3, 20, 50),
		catTxn(4, 20, 50),
		catTxn(5, 20, 50),
		// Uncategorized rows are ignored.
		{ID: 6, Amount: 999999},
	}
	if anomalies := DetectAnomalies(txns, 0); len(anomalies) != 0 {
		t.Errorf("got %d anomalies, want 0", len(anomalies))
	}
}

func TestDetectAnomaliesExplicitThreshold(t *testing.T) {
	txns := []models.Transaction{
		catTxn(1, 10, 100),
		catTxn(2, 10, 100),
		catTxn(3, 10, 100),
		catTxn(4, 10, 500),
	}
	// The outlier sits ~1.73 standard deviations out: inside the default
	// threshold, outside a tighter one.
	if anomalies := DetectAnomalies(txns, 2.0); len(anomalies) != 0 {
		t.Errorf("threshold 2.0: got %d anomalies, want 0", len(anomalies))
	}
	anomalies := DetectAnomalies(txns, 1.5)
	if len(anomalies) != 1 || anomalies[0].Transaction.ID != 4 {
		t.Errorf("threshold 1.5: got %v, want transaction 4 flagged", anomalies)
	}
}
