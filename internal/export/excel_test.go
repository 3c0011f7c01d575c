package export

import (
	"fmt"
	"testing"
	"time"

	"invoicebox/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

var testCompany = Company{
	Name:    "HITS Hub Innovative Software Company",
	Address: "Kano, Nigeria",
	Phone:   "+2348065395103",
}

func testInvoice(items ...models.InvoiceItem) *models.Invoice {
	return &models.Invoice{
		ID:           uuid.New(),
		ClientName:   "Acme Ltd",
		TaxRate:      10,
		DiscountRate: 5,
		DateCreated:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Items:        items,
	}
}

func TestExcelExporter_RowLayout(t *testing.T) {
	inv := testInvoice(
		models.InvoiceItem{Name: "Widget", Qty: 2, Price: 5.0},
		models.InvoiceItem{Name: "Gadget", Qty: 1, Price: 9.99},
	)

	data, err := NewExcelExporter(testCompany).Render(inv)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	// 6 fixed header/blank rows + items + blank + 4 totals rows.
	assert.Len(t, sheet.Rows, 6+len(inv.Items)+1+4)

	assert.Equal(t, testCompany.Name, sheet.Rows[0].Cells[0].String())
	assert.Equal(t, testCompany.Address, sheet.Rows[1].Cells[0].String())
	assert.Equal(t, testCompany.Phone, sheet.Rows[2].Cells[0].String())
	assert.Equal(t, fmt.Sprintf("Invoice #%s", inv.ID), sheet.Rows[4].Cells[0].String())
	assert.Equal(t, "Date: 2026-03-14", sheet.Rows[4].Cells[1].String())

	header := sheet.Rows[6]
	assert.Equal(t, "Item", header.Cells[0].String())
	assert.Equal(t, "Qty", header.Cells[1].String())
	assert.Equal(t, "Price", header.Cells[2].String())
	assert.Equal(t, "Subtotal", header.Cells[3].String())

	widget := sheet.Rows[7]
	assert.Equal(t, "Widget", widget.Cells[0].String())
	qty, err := widget.Cells[1].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	lineTotal, err := widget.Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 10.0, lineTotal, 1e-9)
}

func TestExcelExporter_TotalsRows(t *testing.T) {
	inv := testInvoice(
		models.InvoiceItem{Name: "Widget", Qty: 2, Price: 5.0},
		models.InvoiceItem{Name: "Gadget", Qty: 1, Price: 9.99},
	)

	data, err := NewExcelExporter(testCompany).Render(inv)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	sheet := file.Sheets[0]

	totalsStart := 6 + len(inv.Items) + 1
	expected := []struct {
		label  string
		amount float64
	}{
		{"Subtotal", 19.99},
		{"Tax (10%)", 1.999},
		{"Discount (5%)", 0.9995},
		{"Total", 20.9295},
	}

	for i, want := range expected {
		row := sheet.Rows[totalsStart+i]
		assert.Equal(t, want.label, row.Cells[2].String())
		got, err := row.Cells[3].Float()
		require.NoError(t, err)
		assert.InDelta(t, want.amount, got, 1e-9)
	}
}

func TestExcelExporter_NoItems(t *testing.T) {
	inv := testInvoice()

	data, err := NewExcelExporter(testCompany).Render(inv)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	assert.Len(t, file.Sheets[0].Rows, 6+0+1+4)
}
