package models

import "time"

// CategoryTotal is one P&L grouping row.
type CategoryTotal struct {
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	IsDirect     bool    `json:"is_direct"`
	Total        float64 `json:"total"`
}

// ProfitAndLoss is the derived income statement for one fiscal year.
type ProfitAndLoss struct {
	Year          int             `json:"year"`
	Income        []CategoryTotal `json:"income"`
	Expenses      []CategoryTotal `json:"expenses"`
	TotalIncome   float64         `json:"total_income"`
	TotalExpense  float64         `json:"total_expense"`
	GrossProfit   float64         `json:"gross_profit"`
	NetProfit     float64         `json:"net_profit"`
	Uncategorized float64         `json:"uncategorized"`
}

// BalanceSheet is the derived position statement as of a date. Equity is
// never entered: it is assets minus liabilities by construction.
type BalanceSheet struct {
	AsOf            time.Time        `json:"as_of"`
	AccountBalances []AccountBalance `json:"account_balances"`
	CashAndBank     float64          `json:"cash_and_bank"`
	Receivables     float64          `json:"receivables"`
	Assets          float64          `json:"assets"`
	Payables        float64          `json:"payables"`
	Liabilities     float64          `json:"liabilities"`
	Equity          float64          `json:"equity"`
}

// AgingBucket names the four past-due windows.
type AgingBucket string

const (
	AgingBucketCurrent AgingBucket = "current" // 0-30 days past due
	AgingBucket31To60  AgingBucket = "31_60"
	AgingBucket61To90  AgingBucket = "61_90"
	AgingBucketOver90  AgingBucket = "over_90"
)

// AgedInvoice is one outstanding invoice placed in exactly one bucket.
type AgedInvoice struct {
	InvoiceID     int64       `json:"invoice_id"`
	InvoiceNumber string      `json:"invoice_number"`
	ClientName    string      `json:"client_name"`
	DueDate       time.Time   `json:"due_date"`
	DaysPastDue   int         `json:"days_past_due"`
	Outstanding   float64     `json:"outstanding"`
	Bucket        AgingBucket `json:"bucket"`
}

// AgingReport buckets all outstanding invoices by days past due.
type AgingReport struct {
	AsOf     time.Time                 `json:"as_of"`
	Invoices []AgedInvoice             `json:"invoices"`
	Totals   map[AgingBucket]float64   `json:"totals"`
}

// MonthlyTrend is one month's realized income/expense sums.
type MonthlyTrend struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// ForecastPoint is a projected month. Forecast is always true for projected
// points so callers can never mistake them for realized data.
type ForecastPoint struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Forecast bool    `json:"forecast"`
}

// Anomaly is a transaction whose amount deviates from its category mean by
// more than the configured multiple of the category's standard deviation.
type Anomaly struct {
	Transaction    Transaction `json:"transaction"`
	CategoryMean   float64     `json:"category_mean"`
	CategoryStdDev float64     `json:"category_std_dev"`
	Deviation      float64     `json:"deviation"` // in standard deviations
}

// Insights is a small set of derived highlights over the year's trends.
type Insights struct {
	Year               int     `json:"year"`
	TopExpenseCategory string  `json:"top_expense_category"`
	TopIncomeCategory  string  `json:"top_income_category"`
	SavingsRate        float64 `json:"savings_rate"` // net / income
	BestMonth          int     `json:"best_month"`
	WorstMonth         int     `json:"worst_month"`
	MoMIncomeChange    float64 `json:"mom_income_change"`
	MoMExpenseChange   float64 `json:"mom_expense_change"`
}
