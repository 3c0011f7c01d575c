package export

import (
	"bytes"
	"fmt"

	"invoicebox/internal/billing"
	"invoicebox/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// LayoutPolicy selects how the printable document sizes its page.
type LayoutPolicy string

const (
	// LayoutDynamic renders on a half-width page whose height grows to fit
	// the item count exactly. Item names are truncated so rows never wrap.
	LayoutDynamic LayoutPolicy = "dynamic"
	// LayoutFixed renders on a standard A4 page with a constant line pitch
	// and no truncation. Invoices with enough items run past the page
	// boundary; the dynamic policy is the safe default.
	LayoutFixed LayoutPolicy = "fixed"
)

// Dynamic layout geometry, in points.
const (
	dynamicPageWidth    = 420.0
	dynamicLineHeight   = 18.0
	dynamicTopMargin    = 30.0
	dynamicBottomMargin = 40.0
	dynamicHeaderHeight = 120.0
	dynamicTotalsHeight = 90.0

	maxItemNameLen = 30
)

// Fixed layout geometry, in points.
const (
	fixedTopMargin = 50.0
	fixedLinePitch = 20.0
)

// Column anchors shared by both layouts: item name left-aligned, the numeric
// columns right-aligned.
const (
	colItemX  = 10.0
	colQtyX   = 250.0
	colPriceX = 320.0
	colTotalX = 410.0
)

// DynamicPageHeight returns the page height the dynamic layout uses for an
// invoice with the given number of items.
func DynamicPageHeight(itemCount int) float64 {
	return dynamicTopMargin + dynamicHeaderHeight + float64(itemCount)*dynamicLineHeight + dynamicTotalsHeight + dynamicBottomMargin
}

// PDFExporter renders an invoice as drawn text at literal coordinates.
type PDFExporter struct {
	company Company
	layout  LayoutPolicy
}

func NewPDFExporter(company Company, layout LayoutPolicy) *PDFExporter {
	if layout != LayoutFixed {
		layout = LayoutDynamic
	}
	return &PDFExporter{company: company, layout: layout}
}

// Layout reports the policy this exporter renders with.
func (e *PDFExporter) Layout() LayoutPolicy {
	return e.layout
}

func (e *PDFExporter) Render(inv *models.Invoice) ([]byte, error) {
	var pdf *gofpdf.Fpdf
	if e.layout == LayoutFixed {
		pdf = gofpdf.New("P", "pt", "A4", "")
	} else {
		pdf = gofpdf.NewCustom(&gofpdf.InitType{
			UnitStr: "pt",
			Size:    gofpdf.SizeType{Wd: dynamicPageWidth, Ht: DynamicPageHeight(len(inv.Items))},
		})
	}

	// Text is positioned absolutely; margins and page breaks would shift it.
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if e.layout == LayoutFixed {
		e.renderAt(pdf, inv, fixedTopMargin, fixedLinePitch, false)
	} else {
		e.renderAt(pdf, inv, dynamicTopMargin, dynamicLineHeight, true)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderAt draws the full invoice top-down from startY with the given row
// pitch. Both layouts share the drawing sequence; only geometry differs.
func (e *PDFExporter) renderAt(pdf *gofpdf.Fpdf, inv *models.Invoice, startY, pitch float64, truncate bool) {
	y := startY

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(colItemX, y, e.company.Name)
	y += 20
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(colItemX, y, e.company.Address)
	y += 14
	pdf.Text(colItemX, y, e.company.Phone)
	y += 25

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(colItemX, y, fmt.Sprintf("Invoice #%s", inv.ID))
	y += 16
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(colItemX, y, fmt.Sprintf("Date: %s", inv.DateCreated.Format("2006-01-02")))
	y += 25

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(colItemX, y, "Item")
	e.textRight(pdf, colQtyX, y, "Qty")
	e.textRight(pdf, colPriceX, y, "Price")
	e.textRight(pdf, colTotalX, y, "Total")
	y += pitch

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		name := item.Name
		if truncate {
			name = TruncateItemName(name)
		}
		pdf.Text(colItemX, y, name)
		e.textRight(pdf, colQtyX, y, fmt.Sprintf("%d", item.Qty))
		e.textRight(pdf, colPriceX, y, fmt.Sprintf("%.2f", item.Price))
		e.textRight(pdf, colTotalX, y, fmt.Sprintf("%.2f", float64(item.Qty)*item.Price))
		y += pitch
	}

	totals := billing.ForInvoice(inv)
	y += 15
	pdf.SetFont("Helvetica", "B", 10)
	e.totalsLine(pdf, y, "Subtotal:", totals.Subtotal)
	y += pitch
	e.totalsLine(pdf, y, fmt.Sprintf("Tax (%g%%):", inv.TaxRate), totals.TaxAmount)
	y += pitch
	e.totalsLine(pdf, y, fmt.Sprintf("Discount (%g%%):", inv.DiscountRate), totals.DiscountAmount)
	y += pitch
	e.totalsLine(pdf, y, "Total:", totals.Total)
}

func (e *PDFExporter) totalsLine(pdf *gofpdf.Fpdf, y float64, label string, amount float64) {
	e.textRight(pdf, colPriceX, y, label)
	e.textRight(pdf, colTotalX, y, fmt.Sprintf("%.2f", amount))
}

// textRight draws s so its right edge sits at x.
func (e *PDFExporter) textRight(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

// TruncateItemName caps an item name at the dynamic layout's column width.
// Counts runes, not bytes, so multibyte names keep valid UTF-8.
func TruncateItemName(name string) string {
	runes := []rune(name)
	if len(runes) > maxItemNameLen {
		return string(runes[:maxItemNameLen])
	}
	return name
}
