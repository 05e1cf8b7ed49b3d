package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// nuStrategy handles the Nu print layout, which breaks two generic
// assumptions: the destination account block comes before the source
// account block, and the source account is only identifiable by first
// locating the "cuenta de origen" separator line. Reference, date and
// beneficiary still behave generically.
type nuStrategy struct{}

func (s *nuStrategy) extract(text string, lines []string, _ ClassificationResult) *Receipt {
	// The layout signature already identifies the institution; no point
	// inferring the bank from text that may not even name it.
	return &Receipt{
		Bank:          BankNu,
		Amount:        extractNuAmount(lines),
		SenderAccount: extractNuSenderAccount(lines),
		Reference:     extractReference(text),
		TransferDate:  extractDate(text),
		Beneficiary:   extractBeneficiary(lines),
		RawText:       text,
	}
}

// Amounts at or below this floor are stray matches (masked digits, list
// numbering), not transfers. The threshold matches the behavior of the
// system this replaces.
var nuAmountFloor = decimal.NewFromInt(1)

// extractNuAmount drops destination/beneficiary lines before running the
// generic amount cascade: in this layout the destination block carries
// an amount line of its own that otherwise wins.
func extractNuAmount(lines []string) *decimal.Decimal {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if lineHasAny(line, destinationMarkers) {
			continue
		}
		kept = append(kept, line)
	}
	text := strings.Join(kept, "\n")

	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := parseAmount(m[1]); ok && d.GreaterThan(nuAmountFloor) {
				return &d
			}
		}
	}
	return nil
}

var nuOriginSeparator = []string{"cuenta de origen", "cuenta origen"}

// How many lines below the separator may still belong to the source
// account block.
const nuSeparatorWindow = 4

// extractNuSenderAccount is two-phase: find the origin separator, then
// search only the window of lines from it downward. Only when the text
// has no separator at all does it fall back to lines that mention the
// provider's own name.
func extractNuSenderAccount(lines []string) string {
	for i, line := range lines {
		if !lineHasAny(line, nuOriginSeparator) {
			continue
		}
		end := i + 1 + nuSeparatorWindow
		if end > len(lines) {
			end = len(lines)
		}
		for _, candidate := range lines[i:end] {
			if acct := accountFromLine(candidate); acct != "" {
				return acct
			}
		}
		return ""
	}

	nuNames := aliasesFor(BankNu)
	for _, line := range lines {
		if !lineHasAny(line, nuNames) {
			continue
		}
		if acct := accountFromLine(line); acct != "" {
			return acct
		}
	}
	return ""
}
