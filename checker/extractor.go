package checker

import (
	"regexp"
	"strings"
)

// cardPattern matches one full card token: 13-19 digit number plus
// pipe-delimited month (1-2 digits), year (2-4 digits) and CVV (3-4 digits)
var cardPattern = regexp.MustCompile(`(\d{13,19})\|(\d{1,2})\|(\d{2,4})\|(\d{3,4})`)

// ExtractCards harvests card tokens from a message body, one extraction per
// line at most, in line order. Lines without a match are dropped.
func ExtractCards(text string) []Card {
	var cards []Card
	for _, line := range strings.Split(text, "\n") {
		match := cardPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		cards = append(cards, Card{
			Number: match[1],
			Month:  match[2],
			Year:   match[3],
			CVV:    match[4],
		})
	}
	return cards
}

// ExtractCard returns the first card token in the text, if any
func ExtractCard(text string) (Card, bool) {
	cards := ExtractCards(text)
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[0], true
}
