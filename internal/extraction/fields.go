package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Context markers used to tell sender-side lines from receiver-side
// lines. Receipts usually print both institutions, so whole-text matching
// attributes fields to the wrong side without this filtering.
var (
	originMarkers      = []string{"origen", "remitente", "desde", "emisor"}
	destinationMarkers = []string{"destino", "beneficiario", "destinatario", "recibe", "a favor"}
)

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

func lineHasAny(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// --- amount ---

// Ordered candidates for the transfer amount. The "$"-prefixed shape is
// the most reliable on Mexican receipts, labels next, then a bare
// grouped-with-cents number, then a number with a currency suffix.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`(?i)(?:importe|monto|cantidad)\s*:?\s*\$?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`\b([0-9]{1,3}(?:,[0-9]{3})*\.[0-9]{2})\b`),
	regexp.MustCompile(`(?i)\b([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*(?:mxn|pesos)\b`),
}

// parseAmount turns a captured numeric literal into a decimal. A literal
// that fails to parse, is negative, or carries more than two fractional
// digits counts as a failed match, never as zero.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if d.Sign() < 0 || d.Exponent() < -2 {
		return decimal.Decimal{}, false
	}
	return d, true
}

func extractAmount(text string) *decimal.Decimal {
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := parseAmount(m[1]); ok {
				return &d
			}
		}
	}
	return nil
}

// --- reference ---

// Longer labels come first: Go's regexp picks the first alternative that
// matches, so "referencia" must precede "ref" and "clave de rastreo"
// must precede "clave".
var (
	referenceLabeled = regexp.MustCompile(`(?i)\b(?:clave de rastreo|n[úu]mero de operaci[óo]n|no\.?\s?de\s?operaci[óo]n|referencia|ref|clave|folio)\.?\s*:?\s*([A-Za-z0-9]{6,20})\b`)
	referenceBare    = regexp.MustCompile(`\b[A-Za-z0-9]{10,18}\b`)
)

// extractReference prefers labeled codes. The bare token fallback runs
// last and requires at least one digit, since a 10-18 character run of
// plain letters is almost always just a word.
func extractReference(text string) string {
	if m := referenceLabeled.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, tok := range referenceBare.FindAllString(text, -1) {
		if digitCount(tok) > 0 {
			return tok
		}
	}
	return ""
}

// --- date ---

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// monthFromName resolves a month word by case-insensitive prefix against
// the Spanish month table, so "mar", "marzo" and "Marzo" all resolve to 3.
func monthFromName(name string) (int, bool) {
	lower := strings.ToLower(name)
	if len([]rune(lower)) < 3 {
		return 0, false
	}
	for i, full := range spanishMonths {
		if strings.HasPrefix(full, lower) {
			return i + 1, true
		}
	}
	return 0, false
}

// makeDate rejects impossible component combinations (day 32, month 13)
// by round-tripping through time.Date, which normalizes overflow.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

type dateCandidate struct {
	re    *regexp.Regexp
	build func(m []string) (time.Time, bool)
}

// The four textual date shapes seen on transfer receipts, in the order
// they are tried. A match whose components don't form a real calendar
// date falls through to the next occurrence or pattern.
var dateCandidates = []dateCandidate{
	{
		re: regexp.MustCompile(`\b([0-9]{1,2})/([0-9]{1,2})/([0-9]{4})\b`),
		build: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
	{
		re: regexp.MustCompile(`\b([0-9]{4})/([0-9]{1,2})/([0-9]{1,2})\b`),
		build: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b([0-9]{1,2})\s+de\s+([a-záéíóúñ]+)(?:\s+de)?\s+([0-9]{4})\b`),
		build: func(m []string) (time.Time, bool) {
			month, ok := monthFromName(m[2])
			if !ok {
				return time.Time{}, false
			}
			return makeDate(atoi(m[3]), month, atoi(m[1]))
		},
	},
	{
		re: regexp.MustCompile(`\b([0-9]{1,2})\.([0-9]{1,2})\.([0-9]{4})\b`),
		build: func(m []string) (time.Time, bool) {
			return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
		},
	},
}

// atoi is strconv.Atoi for digit-only regexp captures; the patterns
// guarantee the input parses.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func extractDate(text string) *time.Time {
	for _, cand := range dateCandidates {
		for _, m := range cand.re.FindAllStringSubmatch(text, -1) {
			if t, ok := cand.build(m); ok {
				return &t
			}
		}
	}
	return nil
}

// --- sender account ---

// Account shapes: a masked card/account print (4 digits, mask or space,
// 4 digits) or a bare digit run. Accepted matches must still carry at
// least 8 digits once mask characters are stripped.
var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[0-9]{4}[ *•·xX-]{1,8}[0-9]{4}\b`),
	regexp.MustCompile(`\b[0-9]{10,20}\b`),
}

func accountFromLine(line string) string {
	for _, re := range accountPatterns {
		if m := re.FindString(line); m != "" && digitCount(m) >= 8 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// extractSenderAccount searches origin-marked lines first; only when no
// contextual line yields an account shape does it fall back to scanning
// every line.
func extractSenderAccount(lines []string) string {
	for _, line := range lines {
		if !lineHasAny(line, originMarkers) {
			continue
		}
		if acct := accountFromLine(line); acct != "" {
			return acct
		}
	}
	for _, line := range lines {
		if acct := accountFromLine(line); acct != "" {
			return acct
		}
	}
	return ""
}

// --- issuing bank, second pass ---

// extractBankName re-scans line by line with context awareness.
// Origin-marked lines are tried first; the fallback skips
// destination-marked lines so the receiving institution's name isn't
// attributed to the issuer.
func extractBankName(lines []string, c *classifier) Bank {
	for _, line := range lines {
		if !lineHasAny(line, originMarkers) {
			continue
		}
		if bank, ok := c.matchAlias(strings.ToUpper(line)); ok {
			return bank
		}
	}
	for _, line := range lines {
		if lineHasAny(line, destinationMarkers) {
			continue
		}
		if bank, ok := c.matchAlias(strings.ToUpper(line)); ok {
			return bank
		}
	}
	return BankUnknown
}

// --- beneficiary ---

// Beneficiary names are only taken from labeled lines; an unlabeled
// fallback is too ambiguous to be worth the false positives.
var beneficiaryPattern = regexp.MustCompile(`(?i)(?:beneficiario|a favor de|destinatario)\s*:?\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑa-záéíóúñ .]{9,49})`)

var multiSpace = regexp.MustCompile(`\s+`)

func extractBeneficiary(lines []string) string {
	for _, line := range lines {
		m := beneficiaryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(multiSpace.ReplaceAllString(m[1], " "))
		if len([]rune(name)) >= 10 {
			return name
		}
	}
	return ""
}
