package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicebox/internal/models"
	"invoicebox/internal/repositories"

	"github.com/google/uuid"
)

// ItemInput is one submitted line item row.
type ItemInput struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// InvoiceInput carries the full invoice payload for create and edit. Edits
// replace the complete item set.
type InvoiceInput struct {
	ClientName   string      `json:"client_name"`
	TaxRate      float64     `json:"tax_rate"`
	DiscountRate float64     `json:"discount_rate"`
	Items        []ItemInput `json:"items"`
}

// InvoiceServiceInterface defines the interface for invoice service
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, input *InvoiceInput) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

// ValidationError marks an input rejection so handlers can answer 400 instead
// of treating it as a storage fault.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository) InvoiceServiceInterface {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

func (s *invoiceService) validateInput(input *InvoiceInput) error {
	if strings.TrimSpace(input.ClientName) == "" {
		return &ValidationError{Field: "client_name", Message: "client name is required"}
	}
	if input.TaxRate < 0 {
		return &ValidationError{Field: "tax_rate", Message: "tax rate cannot be negative"}
	}
	if input.DiscountRate < 0 {
		return &ValidationError{Field: "discount_rate", Message: "discount rate cannot be negative"}
	}
	for _, item := range input.Items {
		if item.Qty < 0 {
			return &ValidationError{Field: "item_qty", Message: "item quantity cannot be negative"}
		}
		if item.Price < 0 {
			return &ValidationError{Field: "item_price", Message: "item price cannot be negative"}
		}
	}
	return nil
}

// buildItems drops rows whose trimmed name is blank and keeps the remaining
// rows in submission order.
func (s *invoiceService) buildItems(inputs []ItemInput) []models.InvoiceItem {
	var items []models.InvoiceItem
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		items = append(items, models.InvoiceItem{
			ID:    uuid.New(),
			Name:  name,
			Qty:   in.Qty,
			Price: in.Price,
		})
	}
	return items
}

func (s *invoiceService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*models.Invoice, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ID:           uuid.New(),
		ClientName:   strings.TrimSpace(input.ClientName),
		TaxRate:      input.TaxRate,
		DiscountRate: input.DiscountRate,
		DateCreated:  time.Now().UTC(),
		Items:        s.buildItems(input.Items),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

// UpdateInvoice replaces the invoice fields and the full item set. Returns
// nil, nil when the invoice does not exist.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *InvoiceInput) (*models.Invoice, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.ClientName = strings.TrimSpace(input.ClientName)
	existing.TaxRate = input.TaxRate
	existing.DiscountRate = input.DiscountRate
	existing.Items = s.buildItems(input.Items)

	if err := s.invoiceRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return existing, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, id)
}
