package models

import "math"

// Round2 rounds to 2 decimal places, the precision every stored amount uses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToPaise converts a rupee amount to integer paise. Rounding, not truncating,
// matters here: 0.29 stored as float64 sits just below 0.29, so int(0.29*100)
// would yield 28.
func ToPaise(v float64) int {
	return int(math.Round(v * 100))
}

// LineTotal computes a tax-inclusive invoice line total:
// quantity * unit price * (1 + (cgst+sgst+igst)/100), rounded to 2 decimals.
func LineTotal(quantity, unitPrice, cgst, sgst, igst float64) float64 {
	return Round2(quantity * unitPrice * (1 + (cgst+sgst+igst)/100))
}

// InvoiceTotal sums line totals. The stored invoice total must always equal
// this recomputation; a mismatch on read is surfaced as corruption.
func InvoiceTotal(items []InvoiceLineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal
	}
	return Round2(total)
}
