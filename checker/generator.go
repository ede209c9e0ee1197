package checker

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldNone is the sentinel for an absent card field; the generator fills
// it with a random value in the valid range
const FieldNone = "None"

// maxLuhnRetries bounds the rejection-sampling loop. Roughly one in ten
// random suffixes passes the Luhn check, so hitting the cap means the
// prefix itself is unusable.
const maxLuhnRetries = 1000

// yearWindow is how many years past the current one a generated expiry
// year may fall in
const yearWindow = 11

// wildcardPattern marks a field value to be replaced with a random one
var wildcardPattern = regexp.MustCompile(`[xX]|rnd`)

// Generator produces synthetic, Luhn-valid card candidates for a BIN prefix
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from the current time
func NewGenerator() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// CheckLuhn reports whether the digit string passes the Luhn checksum:
// summing from the rightmost digit, doubling every second digit and adding
// the digits of products above 9, the total must divide by 10
func CheckLuhn(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// Generate produces one card for the given prefix. Explicit month, year and
// CVV values are normalized and preserved; FieldNone or wildcard markers are
// replaced with random in-range values.
func (g *Generator) Generate(prefix, month, year, cvv string) (Card, error) {
	number, err := g.generateNumber(prefix)
	if err != nil {
		return Card{}, err
	}

	return Card{
		Number: number,
		Month:  g.normalizeMonth(month),
		Year:   g.normalizeYear(year),
		CVV:    g.normalizeCVV(cvv, isAmexPrefix(number)),
	}, nil
}

// GenerateBatch produces amount distinct cards sharing the prefix
func (g *Generator) GenerateBatch(prefix, month, year, cvv string, amount int) ([]Card, error) {
	if amount <= 0 {
		return nil, NewCheckError(ErrorInvalidInput, fmt.Sprintf("amount must be a positive integer, got %d", amount))
	}

	cards := make([]Card, 0, amount)
	seen := make(map[string]struct{}, amount)

	for len(cards) < amount {
		card, err := g.Generate(prefix, month, year, cvv)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[card.Number]; dup {
			continue
		}
		seen[card.Number] = struct{}{}
		cards = append(cards, card)
	}

	return cards, nil
}

// generateNumber builds a Luhn-valid number from the prefix by rejection
// sampling, failing closed after maxLuhnRetries attempts
func (g *Generator) generateNumber(prefix string) (string, error) {
	base, err := g.resolvePrefix(prefix)
	if err != nil {
		return "", err
	}

	length := 16
	if isAmexPrefix(base) {
		length = 15
	}
	if len(base) >= length {
		return "", NewCheckError(ErrorInvalidInput, fmt.Sprintf("prefix %s leaves no digits to generate", prefix))
	}

	for attempt := 0; attempt < maxLuhnRetries; attempt++ {
		var builder strings.Builder
		builder.WriteString(base)
		for builder.Len() < length {
			builder.WriteByte(byte('0' + g.rng.Intn(10)))
		}
		number := builder.String()
		if CheckLuhn(number) {
			return number, nil
		}
	}

	return "", NewCheckError(ErrorGeneration, fmt.Sprintf("no Luhn-valid number found for prefix %s after %d attempts", prefix, maxLuhnRetries))
}

// resolvePrefix validates the prefix and replaces x/X wildcard digits
func (g *Generator) resolvePrefix(prefix string) (string, error) {
	if len(prefix) < 4 {
		return "", NewCheckError(ErrorInvalidInput, fmt.Sprintf("prefix must be at least 4 digits, got %q", prefix))
	}

	resolved := make([]byte, len(prefix))
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		switch {
		case c >= '0' && c <= '9':
			resolved[i] = c
		case c == 'x' || c == 'X':
			resolved[i] = byte('0' + g.rng.Intn(10))
		default:
			return "", NewCheckError(ErrorInvalidInput, fmt.Sprintf("prefix may contain only digits and x wildcards, got %q", prefix))
		}
	}

	return string(resolved), nil
}

func (g *Generator) normalizeMonth(month string) string {
	if month == FieldNone || wildcardPattern.MatchString(month) {
		return fmt.Sprintf("%02d", 1+g.rng.Intn(12))
	}
	if len(month) == 1 {
		return "0" + month
	}
	return month
}

func (g *Generator) normalizeYear(year string) string {
	if year == FieldNone || wildcardPattern.MatchString(year) {
		base := g.now().Year()
		return strconv.Itoa(base + g.rng.Intn(yearWindow+1))
	}
	if len(year) == 2 {
		return "20" + year
	}
	return year
}

func (g *Generator) normalizeCVV(cvv string, amex bool) string {
	if cvv == FieldNone || wildcardPattern.MatchString(cvv) {
		if amex {
			return strconv.Itoa(1000 + g.rng.Intn(9000))
		}
		return strconv.Itoa(100 + g.rng.Intn(900))
	}
	return cvv
}

// CardsText renders cards one per line in the pipe-delimited form, for the
// export file attachment
func CardsText(cards []Card) string {
	lines := make([]string, len(cards))
	for i, card := range cards {
		lines[i] = card.String()
	}
	return strings.Join(lines, "\n")
}
