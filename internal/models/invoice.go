package models

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	ClientName   string        `json:"client_name" db:"client_name"`
	TaxRate      float64       `json:"tax_rate" db:"tax_rate"`
	DiscountRate float64       `json:"discount_rate" db:"discount_rate"`
	DateCreated  time.Time     `json:"date_created" db:"date_created"`
	Items        []InvoiceItem `json:"items"`
}
