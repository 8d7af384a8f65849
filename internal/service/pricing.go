package service

import (
	"fmt"
	"math"
)

// TaxRate is the flat tax rate applied to the order subtotal.
const TaxRate = 0.10

// PriceLine is one (product, quantity, unit price) input to the pricing
// calculator.
type PriceLine struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
}

// LineTotal returns the extended price of the line, rounded to cents.
func (l PriceLine) LineTotal() float64 {
	return roundCents(l.UnitPrice * float64(l.Quantity))
}

// OrderTotals is the result of pricing an order.
type OrderTotals struct {
	Subtotal     float64
	Tax          float64
	ShippingCost float64
	Total        float64
}

// ComputeTotals prices an order from its lines and shipping cost. It is pure
// and deterministic: subtotal is the sum of line totals, tax is the flat rate
// over the subtotal, total adds shipping. Quantities must be positive and
// unit prices non-negative.
func ComputeTotals(lines []PriceLine, shippingCost float64) (OrderTotals, error) {
	if shippingCost < 0 {
		return OrderTotals{}, fmt.Errorf("%w: shipping cost must not be negative", ErrInvalidInput)
	}

	var subtotal float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return OrderTotals{}, fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidInput, line.ProductID)
		}
		if line.UnitPrice < 0 {
			return OrderTotals{}, fmt.Errorf("%w: unit price must not be negative for product %d", ErrInvalidInput, line.ProductID)
		}
		subtotal += line.LineTotal()
	}

	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * TaxRate)
	return OrderTotals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shippingCost,
		Total:        roundCents(subtotal + tax + shippingCost),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
