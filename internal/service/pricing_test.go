package service

import (
	"errors"
	"testing"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []PriceLine
		shippingCost float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name: "single line",
			lines: []PriceLine{
				{ProductID: 5, Quantity: 2, UnitPrice: 50},
			},
			shippingCost: 10,
			wantSubtotal: 100,
			wantTax:      10,
			wantTotal:    120,
		},
		{
			name: "multiple lines",
			lines: []PriceLine{
				{ProductID: 1, Quantity: 3, UnitPrice: 19.99},
				{ProductID: 2, Quantity: 1, UnitPrice: 5.50},
			},
			shippingCost: 4.25,
			wantSubtotal: 65.47,
			wantTax:      6.55,
			wantTotal:    76.27,
		},
		{
			name:         "no lines",
			lines:        nil,
			shippingCost: 0,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "free shipping",
			lines: []PriceLine{
				{ProductID: 9, Quantity: 4, UnitPrice: 2.50},
			},
			shippingCost: 0,
			wantSubtotal: 10,
			wantTax:      1,
			wantTotal:    11,
		},
		{
			name: "fractional cents round to two decimals",
			lines: []PriceLine{
				{ProductID: 3, Quantity: 3, UnitPrice: 0.10},
			},
			shippingCost: 0,
			wantSubtotal: 0.30,
			wantTax:      0.03,
			wantTotal:    0.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotals(tt.lines, tt.shippingCost)
			if err != nil {
				t.Fatalf("ComputeTotals() error = %v", err)
			}
			if got.Subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if got.Tax != tt.wantTax {
				t.Errorf("tax = %v, want %v", got.Tax, tt.wantTax)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalsInvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		lines        []PriceLine
		shippingCost float64
	}{
		{
			name:  "zero quantity",
			lines: []PriceLine{{ProductID: 1, Quantity: 0, UnitPrice: 10}},
		},
		{
			name:  "negative quantity",
			lines: []PriceLine{{ProductID: 1, Quantity: -2, UnitPrice: 10}},
		},
		{
			name:  "negative unit price",
			lines: []PriceLine{{ProductID: 1, Quantity: 1, UnitPrice: -0.01}},
		},
		{
			name:         "negative shipping cost",
			lines:        []PriceLine{{ProductID: 1, Quantity: 1, UnitPrice: 10}},
			shippingCost: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(tt.lines, tt.shippingCost)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ComputeTotals() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
