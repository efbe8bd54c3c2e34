package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"finance-backend/internal/cache"
	"finance-backend/internal/metrics"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
)

// DefaultAnomalyThreshold is the number of standard deviations a transaction
// must deviate from its category mean to be flagged.
const DefaultAnomalyThreshold = 2.0

// ForecastStrategy projects future months from realized monthly history.
type ForecastStrategy interface {
	Project(history []models.MonthlyTrend, months int) []models.ForecastPoint
}

// MovingAverageForecast projects each future month as the rolling average of
// the trailing Window months, feeding projections back into the window.
type MovingAverageForecast struct {
	Window int
}

func (f MovingAverageForecast) Project(history []models.MonthlyTrend, months int) []models.ForecastPoint {
	window := f.Window
	if window <= 0 {
		window = 3
	}

	// Drop trailing months with no activity so an empty December does not
	// drag the average to zero mid-year.
	realized := len(history)
	for realized > 0 && history[realized-1].Income == 0 && history[realized-1].Expense == 0 {
		realized--
	}
	if realized == 0 || months <= 0 {
		return nil
	}

	type pair struct{ income, expense float64 }
	series := make([]pair, 0, realized+months)
	for _, m := range history[:realized] {
		series = append(series, pair{m.Income, m.Expense})
	}

	year := history[realized-1].Year
	month := history[realized-1].Month

	points := make([]models.ForecastPoint, 0, months)
	for i := 0; i < months; i++ {
		start := len(series) - window
		if start < 0 {
			start = 0
		}
		var income, expense float64
		for _, p := range series[start:] {
			income += p.income
			expense += p.expense
		}
		n := float64(len(series) - start)
		income = models.Round2(income / n)
		expense = models.Round2(expense / n)

		month++
		if month > 12 {
			month = 1
			year++
		}
		points = append(points, models.ForecastPoint{
			Year:     year,
			Month:    month,
			Income:   income,
			Expense:  expense,
			Forecast: true,
		})
		series = append(series, pair{income, expense})
	}
	return points
}

// StatementService compiles derived financial statements. Every report is a
// pure function of the ledgers; results are cached per organization
// generation and recomputed after any write.
type StatementService struct {
	StmtRepo    *repositories.StatementRepository
	AccountRepo *repositories.AccountRepository
	Forecaster  ForecastStrategy
}

func NewStatementService(stmtRepo *repositories.StatementRepository, accountRepo *repositories.AccountRepository) *StatementService {
	return &StatementService{
		StmtRepo:    stmtRepo,
		AccountRepo: accountRepo,
		Forecaster:  MovingAverageForecast{Window: 3},
	}
}

func (s *StatementService) ProfitAndLoss(ctx context.Context, orgID int64, year int) (*models.ProfitAndLoss, error) {
	params := fmt.Sprintf("%d", year)
	var cached models.ProfitAndLoss
	if cache.GetStatement(ctx, orgID, "pnl", params, &cached) {
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.StatementCacheHits.WithLabelValues("miss").Inc()

	totals, types, err := s.StmtRepo.CategoryTotals(ctx, orgID, year)
	if err != nil {
		return nil, err
	}

	pnl := &models.ProfitAndLoss{Year: year}
	var directExpense float64
	for _, ct := range totals {
		if ct.CategoryID == 0 {
			pnl.Uncategorized = models.Round2(pnl.Uncategorized + ct.Total)
			continue
		}
		switch types[ct.CategoryID] {
		case models.CategoryTypeIncome:
			pnl.Income = append(pnl.Income, ct)
			pnl.TotalIncome += ct.Total
		case models.CategoryTypeExpense:
			pnl.Expenses = append(pnl.Expenses, ct)
			pnl.TotalExpense += ct.Total
			if ct.IsDirect {
				directExpense += ct.Total
			}
		}
	}
	pnl.TotalIncome = models.Round2(pnl.TotalIncome)
	pnl.TotalExpense = models.Round2(pnl.TotalExpense)
	pnl.GrossProfit = models.Round2(pnl.TotalIncome - directExpense)
	pnl.NetProfit = models.Round2(pnl.TotalIncome - pnl.TotalExpense)

	cache.SetStatement(ctx, orgID, "pnl", params, pnl)
	return pnl, nil
}

// BalanceSheet derives the position as of a date. Equity is assets minus
// liabilities by construction, never entered.
func (s *StatementService) BalanceSheet(ctx context.Context, orgID int64, asOf time.Time) (*models.BalanceSheet, error) {
	params := asOf.Format("2006-01-02")
	var cached models.BalanceSheet
	if cache.GetStatement(ctx, orgID, "balance", params, &cached) {
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.StatementCacheHits.WithLabelValues("miss").Inc()

	balances, err := s.AccountRepo.Balances(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.StmtRepo.OutstandingInvoices(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}
	payables, err := s.StmtRepo.ContractorPayables(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}

	bs := &models.BalanceSheet{AsOf: asOf, AccountBalances: balances}
	for _, b := range balances {
		bs.CashAndBank += b.Balance
	}
	for _, inv := range outstanding {
		bs.Receivables += inv.Outstanding
	}
	bs.CashAndBank = models.Round2(bs.CashAndBank)
	bs.Receivables = models.Round2(bs.Receivables)
	bs.Assets = models.Round2(bs.CashAndBank + bs.Receivables)
	bs.Payables = models.Round2(payables)
	bs.Liabilities = bs.Payables
	bs.Equity = models.Round2(bs.Assets - bs.Liabilities)

	cache.SetStatement(ctx, orgID, "balance", params, bs)
	return bs, nil
}

// AgeInvoice places one outstanding invoice in its past-due bucket. Invoices
// without a due date, or not yet due, belong to no bucket; the buckets
// partition only the past-due set.
func AgeInvoice(due, asOf time.Time) (int, models.AgingBucket, bool) {
	if due.IsZero() || due.After(asOf) {
		return 0, "", false
	}
	days := int(asOf.Sub(due).Hours() / 24)
	switch {
	case days <= 30:
		return days, models.AgingBucketCurrent, true
	case days <= 60:
		return days, models.AgingBucket31To60, true
	case days <= 90:
		return days, models.AgingBucket61To90, true
	default:
		return days, models.AgingBucketOver90, true
	}
}

func (s *StatementService) Aging(ctx context.Context, orgID int64, asOf time.Time) (*models.AgingReport, error) {
	params := asOf.Format("2006-01-02")
	var cached models.AgingReport
	if cache.GetStatement(ctx, orgID, "aging", params, &cached) {
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.StatementCacheHits.WithLabelValues("miss").Inc()

	outstanding, err := s.StmtRepo.OutstandingInvoices(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}

	report := &models.AgingReport{
		AsOf: asOf,
		Totals: map[models.AgingBucket]float64{
			models.AgingBucketCurrent: 0,
			models.AgingBucket31To60:  0,
			models.AgingBucket61To90:  0,
			models.AgingBucketOver90:  0,
		},
	}
	for _, inv := range outstanding {
		days, bucket, ok := AgeInvoice(inv.DueDate, asOf)
		if !ok {
			continue
		}
		inv.DaysPastDue, inv.Bucket = days, bucket
		inv.Outstanding = models.Round2(inv.Outstanding)
		report.Invoices = append(report.Invoices, inv)
		report.Totals[inv.Bucket] = models.Round2(report.Totals[inv.Bucket] + inv.Outstanding)
	}

	cache.SetStatement(ctx, orgID, "aging", params, report)
	return report, nil
}

func (s *StatementService) Trends(ctx context.Context, orgID int64, year int) ([]models.MonthlyTrend, error) {
	params := fmt.Sprintf("%d", year)
	var cached []models.MonthlyTrend
	if cache.GetStatement(ctx, orgID, "trends", params, &cached) {
		metrics.StatementCacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.StatementCacheHits.WithLabelValues("miss").Inc()

	trends, err := s.StmtRepo.MonthlyTotals(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	cache.SetStatement(ctx, orgID, "trends", params, trends)
	return trends, nil
}

func (s *StatementService) Forecast(ctx context.Context, orgID int64, year, months int) ([]models.ForecastPoint, error) {
	if months <= 0 {
		months = 3
	}
	if months > 12 {
		return nil, models.NewValidationError("months", "at most 12")
	}
	history, err := s.Trends(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	return s.Forecaster.Project(history, months), nil
}

// DetectAnomalies flags categorized transactions whose amount deviates from
// their category's mean by more than threshold standard deviations.
// Categories with fewer than three transactions are never flagged.
func DetectAnomalies(txns []models.Transaction, threshold float64) []models.Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}

	byCategory := make(map[int64][]models.Transaction)
	for _, t := range txns {
		if t.CategoryID == nil {
			continue
		}
		byCategory[*t.CategoryID] = append(byCategory[*t.CategoryID], t)
	}

	var anomalies []models.Anomaly
	for _, group := range byCategory {
		if len(group) < 3 {
			continue
		}
		var sum float64
		for _, t := range group {
			sum += t.Amount
		}
		mean := sum / float64(len(group))

		var variance float64
		for _, t := range group {
			variance += (t.Amount - mean) * (t.Amount - mean)
		}
		stdDev := math.Sqrt(variance / float64(len(group)))
		if stdDev == 0 {
			continue
		}

		for _, t := range group {
			deviation := math.Abs(t.Amount-mean) / stdDev
			if deviation > threshold {
				anomalies = append(anomalies, models.Anomaly{
					Transaction:    t,
					CategoryMean:   models.Round2(mean),
					CategoryStdDev: models.Round2(stdDev),
					Deviation:      models.Round2(deviation),
				})
			}
		}
	}
	return anomalies
}

func (s *StatementService) Anomalies(ctx context.Context, orgID int64, year int, threshold float64) ([]models.Anomaly, error) {
	txns, err := s.StmtRepo.TransactionsWithCategory(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	return DetectAnomalies(txns, threshold), nil
}

func (s *StatementService) Insights(ctx context.Context, orgID int64, year int) (*models.Insights, error) {
	pnl, err := s.ProfitAndLoss(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	trends, err := s.Trends(ctx, orgID, year)
	if err != nil {
		return nil, err
	}

	ins := &models.Insights{Year: year}
	var topExpense, topIncome float64
	for _, ct := range pnl.Expenses {
		if ct.Total > topExpense {
			topExpense = ct.Total
			ins.TopExpenseCategory = ct.CategoryName
		}
	}
	for _, ct := range pnl.Income {
		if ct.Total > topIncome {
			topIncome = ct.Total
			ins.TopIncomeCategory = ct.CategoryName
		}
	}
	if pnl.TotalIncome > 0 {
		ins.SavingsRate = models.Round2(pnl.NetProfit / pnl.TotalIncome)
	}

	bestNet := math.Inf(-1)
	worstNet := math.Inf(1)
	lastActive := 0
	for _, m := range trends {
		if m.Income == 0 && m.Expense == 0 {
			continue
		}
		lastActive = m.Month
		if m.Net > bestNet {
			bestNet = m.Net
			ins.BestMonth = m.Month
		}
		if m.Net < worstNet {
			worstNet = m.Net
			ins.WorstMonth = m.Month
		}
	}
	if lastActive >= 2 {
		prev, curr := trends[lastActive-2], trends[lastActive-1]
		if prev.Income > 0 {
			ins.MoMIncomeChange = models.Round2((curr.Income - prev.Income) / prev.Income)
		}
		if prev.Expense > 0 {
			ins.MoMExpenseChange = models.Round2((curr.Expense - prev.Expense) / prev.Expense)
		}
	}
	return ins, nil
}
