package billing

import "invoicebox/internal/models"

// Totals holds the derived amounts for one invoice. They are never persisted;
// every consumer recomputes them from the current line items.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// Calculate derives subtotal, tax, discount and total from the line items and
// the invoice's rates. Rates are percentages. Quantities and prices are
// assumed non-negative by upstream validation.
func Calculate(taxRate, discountRate float64, items []models.InvoiceItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += float64(item.Qty) * item.Price
	}

	taxAmount := subtotal * (taxRate / 100)
	discountAmount := subtotal * (discountRate / 100)

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          subtotal + taxAmount - discountAmount,
	}
}

// ForInvoice is a convenience wrapper over Calculate for a loaded invoice.
func ForInvoice(inv *models.Invoice) Totals {
	return Calculate(inv.TaxRate, inv.DiscountRate, inv.Items)
}
