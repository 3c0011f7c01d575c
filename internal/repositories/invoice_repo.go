package repositories

import (
	"context"
	"errors"
	"fmt"

	"invoicebox/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// interface satisfies it too, so repository tests run without a server.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create inserts the invoice and its items in one transaction.
func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (id, client_name, tax_rate, discount_rate, date_created)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, query, invoice.ID, invoice.ClientName, invoice.TaxRate, invoice.DiscountRate, invoice.DateCreated); err != nil {
		return err
	}

	if err := r.insertItems(ctx, tx, invoice.ID, invoice.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, client_name, tax_rate, discount_rate, date_created
		FROM invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.ClientName, &invoice.TaxRate, &invoice.DiscountRate, &invoice.DateCreated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]*models.Invoice, error) {
	query := `
		SELECT id, client_name, tax_rate, discount_rate, date_created
		FROM invoices
		ORDER BY date_created DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.ClientName, &invoice.TaxRate, &invoice.DiscountRate, &invoice.DateCreated); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		items, err := r.loadItems(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		invoice.Items = items
	}
	return invoices, nil
}

// Update rewrites the invoice fields and replaces the full item set
// (delete-then-insert) in one transaction, so a failed edit leaves the prior
// items intact.
func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE invoices
		SET client_name = $1, tax_rate = $2, discount_rate = $3
		WHERE id = $4
	`
	if _, err := tx.Exec(ctx, query, invoice.ClientName, invoice.TaxRate, invoice.DiscountRate, invoice.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return err
	}

	if err := r.insertItems(ctx, tx, invoice.ID, invoice.Items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the invoice; its items go with it via ON DELETE CASCADE.
func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}

func (r *invoiceRepo) insertItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []models.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, name, qty, price, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoiceID
		if _, err := tx.Exec(ctx, query, item.ID, item.InvoiceID, item.Name, item.Qty, item.Price, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, name, qty, price
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		item := models.InvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Qty, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
