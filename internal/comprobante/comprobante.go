package comprobante

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxpos/comprobante-tracker/internal/extraction"
)

// Status is a comprobante's position in the review lifecycle. The engine
// only ever produces pending or error_processing; validated and rejected
// are reviewer decisions, and transitions out of pending are final.
type Status string

const (
	StatusPending         Status = "pending"
	StatusValidated       Status = "validated"
	StatusRejected        Status = "rejected"
	StatusErrorProcessing Status = "error_processing"
)

// Comprobante is a submitted transfer receipt: the uploaded image, the
// sale it claims to pay for, the fields the engine extracted, and the
// review outcome.
type Comprobante struct {
	ID string `json:"id"`

	// Sale the customer says this transfer pays for.
	SaleID            string          `json:"sale_id"`
	SaleTotal         decimal.Decimal `json:"sale_total"`
	SaleDate          time.Time       `json:"sale_date"`
	SaleAccountHolder string          `json:"sale_account_holder,omitempty"`

	// Extraction output. All optional; the reviewer can override any of
	// them before approving.
	Bank            extraction.Bank  `json:"bank"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	SenderAccount   string           `json:"sender_account,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	TransferDate    *time.Time       `json:"transfer_date,omitempty"`
	Beneficiary     string           `json:"beneficiary,omitempty"`
	RawText         string           `json:"raw_text,omitempty"`
	ProcessingError string           `json:"processing_error,omitempty"`

	Status       Status `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`

	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaleInfo is what the upload request tells us about the sale being paid.
type SaleInfo struct {
	ID            string
	Total         decimal.Decimal
	Date          time.Time
	AccountHolder string
}

// FieldOverrides carries reviewer corrections applied at approval time.
// Nil fields are left as extracted.
type FieldOverrides struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	SenderAccount *string          `json:"sender_account,omitempty"`
	Reference     *string          `json:"reference,omitempty"`
	TransferDate  *time.Time       `json:"transfer_date,omitempty"`
	Beneficiary   *string          `json:"beneficiary,omitempty"`
}
