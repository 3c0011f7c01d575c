package export

import (
	"bytes"
	"fmt"

	"invoicebox/internal/billing"
	"invoicebox/internal/models"

	"github.com/tealeg/xlsx"
)

// ExcelExporter builds a single-sheet workbook for one invoice. The layout is
// fixed: 6 header rows (company name, address, phone, blank, invoice line,
// blank), the column header, one row per item, a blank row, then the four
// totals rows.
type ExcelExporter struct {
	company Company
}

func NewExcelExporter(company Company) *ExcelExporter {
	return &ExcelExporter{company: company}
}

func (e *ExcelExporter) Render(inv *models.Invoice) ([]byte, error) {
	file := xlsx.NewFile()

	// Sheet names are capped at 31 characters, so only the UUID prefix fits.
	sheet, err := file.AddSheet(fmt.Sprintf("Invoice %.8s", inv.ID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	sheet.AddRow().AddCell().SetString(e.company.Name)
	sheet.AddRow().AddCell().SetString(e.company.Address)
	sheet.AddRow().AddCell().SetString(e.company.Phone)
	sheet.AddRow()

	infoRow := sheet.AddRow()
	infoRow.AddCell().SetString(fmt.Sprintf("Invoice #%s", inv.ID))
	infoRow.AddCell().SetString(fmt.Sprintf("Date: %s", inv.DateCreated.Format("2006-01-02")))
	sheet.AddRow()

	headerRow := sheet.AddRow()
	for _, h := range []string{"Item", "Qty", "Price", "Subtotal"} {
		headerRow.AddCell().SetString(h)
	}

	for _, item := range inv.Items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.Name)
		row.AddCell().SetInt(item.Qty)
		row.AddCell().SetFloat(item.Price)
		row.AddCell().SetFloat(float64(item.Qty) * item.Price)
	}

	totals := billing.ForInvoice(inv)
	sheet.AddRow()
	e.addTotalRow(sheet, "Subtotal", totals.Subtotal)
	e.addTotalRow(sheet, fmt.Sprintf("Tax (%g%%)", inv.TaxRate), totals.TaxAmount)
	e.addTotalRow(sheet, fmt.Sprintf("Discount (%g%%)", inv.DiscountRate), totals.DiscountAmount)
	e.addTotalRow(sheet, "Total", totals.Total)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// addTotalRow appends a row shaped like the item rows, with the label in the
// third column and the amount in the fourth.
func (e *ExcelExporter) addTotalRow(sheet *xlsx.Sheet, label string, amount float64) {
	row := sheet.AddRow()
	row.AddCell()
	row.AddCell()
	row.AddCell().SetString(label)
	row.AddCell().SetFloat(amount)
}
