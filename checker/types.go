// Package checker holds the card-tools domain logic: synthetic card
// generation, card token extraction and the simulated payment gates.
package checker

// Card is one card candidate: number plus expiry and CVV, all as strings
type Card struct {
	Number string `json:"number"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	CVV    string `json:"cvv"`
}

// String renders the card in the pipe-delimited wire form
func (c Card) String() string {
	return c.Number + "|" + c.Month + "|" + c.Year + "|" + c.CVV
}

// BIN returns the issuer prefix (leading 6 digits) of the card number
func (c Card) BIN() string {
	if len(c.Number) <= 6 {
		return c.Number
	}
	return c.Number[:6]
}

// IsAmex reports whether the number carries an American Express prefix
// (34 or 37), which implies 15-digit numbers and 4-digit CVVs
func (c Card) IsAmex() bool {
	return isAmexPrefix(c.Number)
}

func isAmexPrefix(number string) bool {
	if len(number) < 2 {
		return false
	}
	return number[:2] == "34" || number[:2] == "37"
}

// GateResult is the outcome of one simulated authorization attempt
type GateResult struct {
	Approved bool   `json:"approved"`
	Response string `json:"response"`
}
