package extraction

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Layout selects the extraction strategy for a receipt.
type Layout int

const (
	// LayoutGeneric is the default cascade of per-field extractors.
	LayoutGeneric Layout = iota
	// LayoutNu is the Nu print layout, which places the destination
	// account block before the source account block.
	LayoutNu
)

// ClassificationResult is the output of classifying a receipt's text.
type ClassificationResult struct {
	Bank   Bank
	Layout Layout
}

// bankAliases maps each known institution to the name variants that show
// up on printed receipts. Order matters: the first bank with a matching
// alias wins when several institutions are mentioned.
var bankAliases = []struct {
	bank    Bank
	aliases []string
}{
	{BankBBVA, []string{"bbva", "bancomer"}},
	{BankSantander, []string{"santander"}},
	{BankBanorte, []string{"banorte"}},
	{BankHSBC, []string{"hsbc"}},
	{BankScotiabank, []string{"scotiabank", "scotia"}},
	{BankCitibanamex, []string{"citibanamex", "banamex", "citi"}},
	{BankAzteca, []string{"banco azteca", "azteca"}},
	{BankBanCoppel, []string{"bancoppel", "coppel"}},
	{BankInbursa, []string{"inbursa"}},
	{BankSpin, []string{"spin by oxxo", "spin", "oxxo"}},
	{BankMercadoPago, []string{"mercado pago", "mercadopago"}},
	{BankNu, []string{"nu bank", "nubank", "nu mexico", "nu méxico"}},
}

// Markers whose joint presence identifies the Nu print layout. Receipts
// carrying all three always come from Nu source accounts, even when the
// bank name itself didn't survive OCR.
var nuLayoutMarkers = [][]string{
	{"cuenta destino", "cuenta de destino"},
	{"cuenta de origen", "cuenta origen"},
	{"clave de rastreo"},
}

// classifier decides which bank issued a receipt and which extraction
// strategy applies. It matches all aliases in a single pass with an
// Aho-Corasick automaton built once at construction.
type classifier struct {
	matcher *ahocorasick.Matcher
	banks   []Bank // pattern index -> bank, in bankAliases order
}

func newClassifier() *classifier {
	var patterns [][]byte
	var banks []Bank
	for _, entry := range bankAliases {
		for _, alias := range entry.aliases {
			patterns = append(patterns, []byte(strings.ToUpper(alias)))
			banks = append(banks, entry.bank)
		}
	}
	return &classifier{
		matcher: ahocorasick.NewMatcher(patterns),
		banks:   banks,
	}
}

// Classify is a pure function of the input text. The layout signature is
// checked before aliases so a Nu-layout receipt is routed to the
// specialized strategy even when no alias matched.
func (c *classifier) Classify(text string) ClassificationResult {
	upper := strings.ToUpper(text)

	if hasNuLayoutSignature(upper) {
		return ClassificationResult{Bank: BankNu, Layout: LayoutNu}
	}

	bank, ok := c.matchAlias(upper)
	if !ok {
		return ClassificationResult{Bank: BankUnknown, Layout: LayoutGeneric}
	}
	if bank == BankNu {
		return ClassificationResult{Bank: BankNu, Layout: LayoutNu}
	}
	return ClassificationResult{Bank: bank, Layout: LayoutGeneric}
}

// matchAlias returns the first bank (in bankAliases order) whose alias
// occurs anywhere in the already-uppercased text.
func (c *classifier) matchAlias(upper string) (Bank, bool) {
	hits := c.matcher.Match([]byte(upper))
	if len(hits) == 0 {
		return BankUnknown, false
	}
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(c.banks) {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return BankUnknown, false
	}
	return c.banks[best], true
}

func aliasesFor(bank Bank) []string {
	for _, entry := range bankAliases {
		if entry.bank == bank {
			return entry.aliases
		}
	}
	return nil
}

func hasNuLayoutSignature(upper string) bool {
	for _, variants := range nuLayoutMarkers {
		found := false
		for _, marker := range variants {
			if strings.Contains(upper, strings.ToUpper(marker)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
