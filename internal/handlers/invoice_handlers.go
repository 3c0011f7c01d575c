package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"invoicebox/internal/billing"
	"invoicebox/internal/common"
	"invoicebox/internal/export"
	"invoicebox/internal/models"
	"invoicebox/internal/services"
	"invoicebox/internal/storage"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices and their exports.
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	excelExporter  *export.ExcelExporter
	pdfExporter    *export.PDFExporter
	objectStore    storage.ObjectStore
	archiveBucket  string
}

// NewInvoiceHandlers creates a new invoice handlers instance. objectStore may
// be nil when export archiving is not configured.
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, excelExporter *export.ExcelExporter, pdfExporter *export.PDFExporter, objectStore storage.ObjectStore, archiveBucket string) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		excelExporter:  excelExporter,
		pdfExporter:    pdfExporter,
		objectStore:    objectStore,
		archiveBucket:  archiveBucket,
	}
}

// InvoiceView is an invoice plus its derived totals. Totals are recomputed on
// every response so edits to items or rates show up immediately.
type InvoiceView struct {
	*models.Invoice
	Totals billing.Totals `json:"totals"`
}

func newInvoiceView(inv *models.Invoice) InvoiceView {
	return InvoiceView{Invoice: inv, Totals: billing.ForInvoice(inv)}
}

// ListInvoices handles GET /
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	invoices, err := h.invoiceService.ListInvoices(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices: "+err.Error())
	}

	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, newInvoiceView(inv))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": views,
	})
}

// CreateInvoice handles POST /invoice/new
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	input, err := parseInvoiceForm(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request().Context(), input)
	if err != nil {
		return h.sendServiceError(c, "Failed to create invoice", err)
	}

	return c.JSON(http.StatusCreated, newInvoiceView(invoice))
}

// GetInvoice handles GET /invoice/:id/view
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}
	return c.JSON(http.StatusOK, newInvoiceView(invoice))
}

// UpdateInvoice handles POST /invoice/:id/edit. The submitted item set fully
// replaces the stored one.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid invoice ID")
	}

	input, err := parseInvoiceForm(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request().Context(), invoiceID, input)
	if err != nil {
		return h.sendServiceError(c, "Failed to update invoice", err)
	}
	if invoice == nil {
		return common.SendNotFoundError(c, "invoice")
	}

	return c.JSON(http.StatusOK, newInvoiceView(invoice))
}

// DeleteInvoice handles POST /invoice/:id/delete
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}

	if err := h.invoiceService.DeleteInvoice(c.Request().Context(), invoice.ID); err != nil {
		return common.SendServerError(c, "Failed to delete invoice: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invoice deleted successfully",
	})
}

// ExportExcel handles GET /invoice/:id/excel
func (h *InvoiceHandlers) ExportExcel(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}

	data, err := h.excelExporter.Render(invoice)
	if err != nil {
		return common.SendServerError(c, "Failed to generate spreadsheet: "+err.Error())
	}

	filename := fmt.Sprintf(export.ExcelFilenameFormat, invoice.ID)
	h.archiveExport(c, filename, data, export.ExcelContentType)
	return h.sendAttachment(c, filename, export.ExcelContentType, data)
}

// ExportPDF handles GET /invoice/:id/pdf
func (h *InvoiceHandlers) ExportPDF(c echo.Context) error {
	invoice, err := h.fetchInvoice(c)
	if err != nil || invoice == nil {
		return err
	}

	data, err := h.pdfExporter.Render(invoice)
	if err != nil {
		return common.SendServerError(c, "Failed to generate PDF: "+err.Error())
	}

	filename := fmt.Sprintf(export.PDFFilenameFormat, invoice.ID)
	h.archiveExport(c, filename, data, export.PDFContentType)
	return h.sendAttachment(c, filename, export.PDFContentType, data)
}

// sendServiceError answers 400 for input rejections and 500 for everything
// else the service surfaces (storage and transaction failures).
func (h *InvoiceHandlers) sendServiceError(c echo.Context, prefix string, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return common.SendValidationError(c, vErr.Field, vErr.Message)
	}
	return common.SendServerError(c, prefix+": "+err.Error())
}

// fetchInvoice resolves :id and loads the invoice. On failure it writes the
// error response and returns a nil invoice with a nil error already sent.
func (h *InvoiceHandlers) fetchInvoice(c echo.Context) (*models.Invoice, error) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, common.SendClientError(c, "Invalid invoice ID")
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request().Context(), invoiceID)
	if err != nil {
		return nil, common.SendServerError(c, "Failed to retrieve invoice: "+err.Error())
	}
	if invoice == nil {
		return nil, common.SendNotFoundError(c, "invoice")
	}
	return invoice, nil
}

// archiveExport uploads the generated document to object storage when an
// archive bucket is configured. Failures are logged, never surfaced: the
// download must not depend on the archive.
func (h *InvoiceHandlers) archiveExport(c echo.Context, objectName string, data []byte, contentType string) {
	if h.objectStore == nil || h.archiveBucket == "" {
		return
	}
	ctx := c.Request().Context()
	if err := h.objectStore.Upload(ctx, h.archiveBucket, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Printf("WARN: failed to archive export %s: %v", objectName, err)
	}
}

func (h *InvoiceHandlers) sendAttachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// parseInvoiceForm reads the create/edit form contract: client_name, tax_rate
// and discount_rate plus the parallel arrays item_name[], item_qty[] and
// item_price[]. Rows whose trimmed name is blank are skipped before their
// numbers are parsed; malformed numbers in kept rows fail the request.
func parseInvoiceForm(c echo.Context) (*services.InvoiceInput, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, fmt.Errorf("invalid form payload")
	}

	taxRate, err := parseRate(c.FormValue("tax_rate"), "tax_rate")
	if err != nil {
		return nil, err
	}
	discountRate, err := parseRate(c.FormValue("discount_rate"), "discount_rate")
	if err != nil {
		return nil, err
	}

	names := form["item_name[]"]
	qtys := form["item_qty[]"]
	prices := form["item_price[]"]

	rowCount := len(names)
	if len(qtys) < rowCount {
		rowCount = len(qtys)
	}
	if len(prices) < rowCount {
		rowCount = len(prices)
	}

	var items []services.ItemInput
	for i := 0; i < rowCount; i++ {
		name := strings.TrimSpace(names[i])
		if name == "" {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtys[i]))
		if err != nil {
			return nil, fmt.Errorf("item_qty must be an integer: %q", qtys[i])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(prices[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("item_price must be a number: %q", prices[i])
		}
		items = append(items, services.ItemInput{Name: name, Qty: qty, Price: price})
	}

	return &services.InvoiceInput{
		ClientName:   c.FormValue("client_name"),
		TaxRate:      taxRate,
		DiscountRate: discountRate,
		Items:        items,
	}, nil
}

func parseRate(value, field string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", field, value)
	}
	return rate, nil
}
