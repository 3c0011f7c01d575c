package models

import (
	"github.com/google/uuid"
)

type InvoiceItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	InvoiceID uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Name      string    `json:"name" db:"name"`
	Qty       int       `json:"qty" db:"qty"`
	Price     float64   `json:"price" db:"price"`
}
