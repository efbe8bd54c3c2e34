package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
	"finance-backend/internal/timeutil"
)

// InvoicePDFService renders a printable invoice.
type InvoicePDFService struct {
	InvoiceRepo *repositories.InvoiceRepository
	OrgName     string
}

func NewInvoicePDFService(invoiceRepo *repositories.InvoiceRepository, orgName string) *InvoicePDFService {
	return &InvoicePDFService{InvoiceRepo: invoiceRepo, OrgName: orgName}
}

func (s *InvoicePDFService) Render(ctx context.Context, orgID, invoiceID int64) (*bytes.Buffer, error) {
	inv, err := s.InvoiceRepo.Get(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.OrgName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, fmt.Sprintf("Tax Invoice %s", inv.InvoiceNumber), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Client block
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Billed To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", inv.ClientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", inv.ClientEmail), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Issue Date: %s", inv.IssueDate.Format("02-Jan-2006")), "LB", 0, "L", false, 0, "")
	if inv.DueDate != nil {
		pdf.CellFormat(95, 7, fmt.Sprintf("Due Date: %s", inv.DueDate.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "GST %", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range inv.Items {
		gst := line.CGSTRate + line.SGSTRate + line.IGSTRate
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", line.Position), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", gst), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", line.LineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total: Rs. %.2f", inv.TotalAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Paid: Rs. %.2f", inv.PaidAmount), "1", 0, "C", false, 0, "")
	if inv.Outstanding > 0 {
		pdf.SetFillColor(255, 200, 200)
		pdf.CellFormat(64, 8, fmt.Sprintf("Outstanding: Rs. %.2f", inv.Outstanding), "1", 1, "C", true, 0, "")
	} else {
		pdf.CellFormat(64, 8, "Fully Paid", "1", 1, "C", false, 0, "")
	}

	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 5, "Notes: "+inv.Notes, "", "L", false)
	}
	if inv.Status == models.InvoiceStatusVoid {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(190, 10, "VOID", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf, nil
}
