package models

import "testing"

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		unitPrice float64
		cgst      float64
		sgst      float64
		igst      float64
		want      float64
	}{
		{"no tax", 2, 100, 0, 0, 0, 200.00},
		{"intra-state GST", 2, 100, 9, 9, 0, 236.00},
		{"inter-state GST", 2, 100, 0, 0, 18, 236.00},
		{"fractional quantity", 1.5, 80, 2.5, 2.5, 0, 126.00},
		{"rounding", 3, 33.33, 0, 0, 0, 99.99},
		{"sub-paisa rounds", 1, 10.006, 0, 0, 0, 10.01},
		{"zero price", 5, 0, 9, 9, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.quantity, tt.unitPrice, tt.cgst, tt.sgst, tt.igst)
			if got != tt.want {
				t.Errorf("LineTotal(%v, %v, %v, %v, %v) = %v, want %v",
					tt.quantity, tt.unitPrice, tt.cgst, tt.sgst, tt.igst, got, tt.want)
			}
		})
	}
}

func TestInvoiceTotal(t *testing.T) {
	items := []InvoiceLineItem{
		{LineTotal: 236.00},
		{LineTotal: 99.99},
		{LineTotal: 0.01},
	}
	if got := InvoiceTotal(items); got != 336.00 {
		t.Errorf("InvoiceTotal = %v, want 336.00", got)
	}
	if got := InvoiceTotal(nil); got != 0 {
		t.Errorf("InvoiceTotal(nil) = %v, want 0", got)
	}
}

func TestToPaise(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		// 0.29 and 19.99 sit just below their printed value in float64;
		// truncation after *100 would lose a paisa.
		{0.29, 29},
		{19.99, 1999},
		{100, 10000},
		{0.01, 1},
		{1234.56, 123456},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ToPaise(tt.in); got != tt.want {
			t.Errorf("ToPaise(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{1.004, 1.00},
		{-1.006, -1.01},
		{0, 0},
		{99.994, 99.99},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
