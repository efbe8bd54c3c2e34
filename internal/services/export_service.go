package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"finance-backend/internal/models"
)

// ExportService renders compiled statements into an XLSX workbook with one
// sheet per report.
type ExportService struct {
	Statements *StatementService
}

func NewExportService(statements *StatementService) *ExportService {
	return &ExportService{Statements: statements}
}

// StatementWorkbook compiles the P&L, monthly trends, and receivables aging
// for one year into a single workbook.
func (s *ExportService) StatementWorkbook(ctx context.Context, orgID int64, year int, asOf time.Time) (*bytes.Buffer, error) {
	pnl, err := s.Statements.ProfitAndLoss(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	trends, err := s.Statements.Trends(ctx, orgID, year)
	if err != nil {
		return nil, err
	}
	aging, err := s.Statements.Aging(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writePnLSheet(f, pnl); err != nil {
		return nil, err
	}
	if err := s.writeTrendsSheet(f, trends); err != nil {
		return nil, err
	}
	if err := s.writeAgingSheet(f, aging); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func (s *ExportService) writePnLSheet(f *excelize.File, pnl *models.ProfitAndLoss) error {
	const sheet = "Profit and Loss"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	row := 1
	setRow := func(a string, b interface{}) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b)
		row++
	}

	setRow("Profit and Loss", pnl.Year)
	row++
	setRow("Income", "")
	for _, ct := range pnl.Income {
		setRow(ct.CategoryName, ct.Total)
	}
	setRow("Total Income", pnl.TotalIncome)
	row++
	setRow("Expenses", "")
	for _, ct := range pnl.Expenses {
		name := ct.CategoryName
		if ct.IsDirect {
			name += " (direct)"
		}
		setRow(name, ct.Total)
	}
	setRow("Total Expenses", pnl.TotalExpense)
	row++
	setRow("Gross Profit", pnl.GrossProfit)
	setRow("Net Profit", pnl.NetProfit)
	if pnl.Uncategorized != 0 {
		setRow("Uncategorized", pnl.Uncategorized)
	}
	return nil
}

func (s *ExportService) writeTrendsSheet(f *excelize.File, trends []models.MonthlyTrend) error {
	const sheet = "Monthly Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Month", "Income", "Expense", "Net"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, m := range trends {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), time.Month(m.Month).String())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), m.Income)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), m.Expense)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), m.Net)
	}
	return nil
}

func (s *ExportService) writeAgingSheet(f *excelize.File, aging *models.AgingReport) error {
	const sheet = "Receivables Aging"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Invoice", "Client", "Due Date", "Days Past Due", "Outstanding", "Bucket"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	row := 2
	for _, inv := range aging.Invoices {
		due := ""
		if !inv.DueDate.IsZero() {
			due = inv.DueDate.Format("2006-01-02")
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), inv.InvoiceNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), inv.ClientName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), due)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), inv.DaysPastDue)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), inv.Outstanding)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), string(inv.Bucket))
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Totals")
	row++
	for _, bucket := range []models.AgingBucket{
		models.AgingBucketCurrent, models.AgingBucket31To60,
		models.AgingBucket61To90, models.AgingBucketOver90,
	} {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(bucket))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), aging.Totals[bucket])
		row++
	}
	return nil
}
