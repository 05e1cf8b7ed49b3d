// Package extraction turns raw OCR text from scanned bank-transfer
// receipts into structured records and cross-checks them against the
// sale they are supposed to pay for. It performs no I/O: callers feed it
// text produced by an external OCR step and consume a plain value.
package extraction

import "strings"

// strategy is one end-to-end extraction flow. There is one per Layout;
// adding a bank with a non-generic print layout means adding a Layout
// value and a strategy, not growing a conditional chain.
type strategy interface {
	extract(text string, lines []string, cls ClassificationResult) *Receipt
}

// Engine is the extraction pipeline: classify, dispatch to the layout's
// strategy, assemble a Receipt. It is stateless after construction and
// safe for concurrent use.
type Engine struct {
	classifier *classifier
	strategies map[Layout]strategy
}

func NewEngine() *Engine {
	c := newClassifier()
	return &Engine{
		classifier: c,
		strategies: map[Layout]strategy{
			LayoutGeneric: &genericStrategy{classifier: c},
			LayoutNu:      &nuStrategy{},
		},
	}
}

// Classify exposes the bank classification step on its own, for callers
// that only need to know which institution a text belongs to.
func (e *Engine) Classify(text string) ClassificationResult {
	return e.classifier.Classify(text)
}

// Extract runs the full pipeline over one receipt's OCR text. It never
// fails: data-quality problems degrade to absent fields, and the only
// hard-failure case (blank input) is reported through ProcessingError on
// the returned record. Identical input always yields an identical record.
func (e *Engine) Extract(rawText string) *Receipt {
	if strings.TrimSpace(rawText) == "" {
		return &Receipt{
			Bank:            BankUnknown,
			RawText:         rawText,
			ProcessingError: "no usable text recognized",
		}
	}

	cls := e.classifier.Classify(rawText)
	lines := splitLines(rawText)
	return e.strategies[cls.Layout].extract(rawText, lines, cls)
}

// genericStrategy is the default flow: every field is extracted by its
// own pattern cascade over the same text.
type genericStrategy struct {
	classifier *classifier
}

func (s *genericStrategy) extract(text string, lines []string, cls ClassificationResult) *Receipt {
	// The line-context pass outranks the whole-text alias scan: when a
	// receipt names both institutions, only the context markers can tell
	// the issuer from the receiver. The classifier's answer stands when
	// the context pass finds nothing.
	bank := extractBankName(lines, s.classifier)
	if bank == BankUnknown {
		bank = cls.Bank
	}

	return &Receipt{
		Bank:          bank,
		Amount:        extractAmount(text),
		SenderAccount: extractSenderAccount(lines),
		Reference:     extractReference(text),
		TransferDate:  extractDate(text),
		Beneficiary:   extractBeneficiary(lines),
		RawText:       text,
	}
}
