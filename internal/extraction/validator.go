package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DuplicateCheck reports whether a reference code was already consumed
// by a previously approved receipt. The lookup itself lives outside this
// package; only the rule is defined here.
type DuplicateCheck func(reference string) (bool, error)

// ErrInvalidSaleReference signals a contract violation by the caller: a
// missing or malformed sale reference must fail fast rather than quietly
// answer false to every check.
var ErrInvalidSaleReference = errors.New("invalid sale reference")

// Validate cross-checks an extracted receipt against its sale. It is a
// pure function over its inputs plus the duplicate-check predicate:
// absence of a compared field yields false for that check, never an
// error. AmountMatches requires exact decimal equality; SameDayTransfer
// compares calendar dates and ignores time of day.
func Validate(receipt *Receipt, sale SaleReference, isDuplicate DuplicateCheck) (ValidationResult, error) {
	var result ValidationResult

	if receipt == nil {
		return result, fmt.Errorf("receipt is required")
	}
	if sale.Total.Sign() <= 0 || sale.Date.IsZero() {
		return result, fmt.Errorf("%w: positive total and date are required", ErrInvalidSaleReference)
	}

	if receipt.Amount != nil && receipt.Amount.Equal(sale.Total) {
		result.AmountMatches = true
	}

	if receipt.TransferDate != nil {
		ty, tm, td := receipt.TransferDate.Date()
		sy, sm, sd := sale.Date.Date()
		result.SameDayTransfer = ty == sy && tm == sm && td == sd
	}

	if receipt.Reference != "" && isDuplicate != nil {
		dup, err := isDuplicate(receipt.Reference)
		if err != nil {
			return ValidationResult{}, fmt.Errorf("checking reference %q: %w", receipt.Reference, err)
		}
		result.DuplicateReference = dup
	}

	result.BeneficiaryMatches = beneficiaryMatches(receipt.Beneficiary, sale.AccountHolder)

	return result, nil
}

// beneficiaryMatches tolerates OCR noise: every word of the expected
// account holder must fuzzy-match the extracted name, with case and
// diacritics folded. Absence on either side is a non-match.
func beneficiaryMatches(extracted, expected string) bool {
	if extracted == "" || expected == "" {
		return false
	}
	words := strings.Fields(expected)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		if !fuzzy.MatchNormalizedFold(word, extracted) {
			return false
		}
	}
	return true
}
