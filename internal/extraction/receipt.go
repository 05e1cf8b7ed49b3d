package extraction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank identifies the institution that issued a transfer receipt.
// The set of values is a closed contract; callers must treat anything
// they don't recognize as BankUnknown.
type Bank string

const (
	BankUnknown     Bank = "unknown"
	BankBBVA        Bank = "bbva"
	BankSantander   Bank = "santander"
	BankBanorte     Bank = "banorte"
	BankHSBC        Bank = "hsbc"
	BankScotiabank  Bank = "scotiabank"
	BankCitibanamex Bank = "citibanamex"
	BankAzteca      Bank = "banco_azteca"
	BankBanCoppel   Bank = "bancoppel"
	BankInbursa     Bank = "inbursa"
	BankSpin        Bank = "spin"
	BankMercadoPago Bank = "mercado_pago"
	BankNu          Bank = "nu"
)

// Receipt is the structured result of running the extraction engine over
// one receipt's OCR text. Every field may legitimately be absent; absence
// is a nil pointer or empty string, never a zero amount or zero date.
type Receipt struct {
	Bank            Bank             `json:"bank"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	SenderAccount   string           `json:"sender_account,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	TransferDate    *time.Time       `json:"transfer_date,omitempty"`
	Beneficiary     string           `json:"beneficiary,omitempty"`
	RawText         string           `json:"raw_text"`
	ProcessingError string           `json:"processing_error,omitempty"`
}

// SaleReference carries the sale a receipt is supposed to pay for.
// AccountHolder is optional; when set, the validator compares it against
// the extracted beneficiary name.
type SaleReference struct {
	ID            string
	Total         decimal.Decimal
	Date          time.Time
	AccountHolder string
}

// ValidationResult reports the cross-checks between an extracted receipt
// and its sale. Every check defaults to false when either side is absent.
type ValidationResult struct {
	AmountMatches      bool `json:"amount_matches"`
	SameDayTransfer    bool `json:"same_day_transfer"`
	DuplicateReference bool `json:"duplicate_reference"`
	BeneficiaryMatches bool `json:"beneficiary_matches"`
}
