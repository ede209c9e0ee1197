package checker

import (
	"testing"
)

func TestExtractCards(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Card
	}{
		{
			name: "single token",
			text: "4532015112830366|12|25|123",
			want: []Card{{Number: "4532015112830366", Month: "12", Year: "25", CVV: "123"}},
		},
		{
			name: "multiple lines in order",
			text: "4532015112830366|12|25|123\n371449635398431|1|2027|1234",
			want: []Card{
				{Number: "4532015112830366", Month: "12", Year: "25", CVV: "123"},
				{Number: "371449635398431", Month: "1", Year: "2027", CVV: "1234"},
			},
		},
		{
			name: "surrounding noise",
			text: "check this one 4532015112830366|12|25|123 please",
			want: []Card{{Number: "4532015112830366", Month: "12", Year: "25", CVV: "123"}},
		},
		{
			name: "one extraction per line",
			text: "4532015112830366|12|25|123 4111111111111111|01|26|999",
			want: []Card{{Number: "4532015112830366", Month: "12", Year: "25", CVV: "123"}},
		},
		{
			name: "non-matching lines dropped",
			text: "hello\n447697|12\n4532015112830366|12|25|123\nworld",
			want: []Card{{Number: "4532015112830366", Month: "12", Year: "25", CVV: "123"}},
		},
		{
			name: "number too short",
			text: "453201511283|12|25|123",
			want: nil,
		},
		{
			name: "no cards at all",
			text: "nothing here",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCards(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractCards() returned %d cards, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("card %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractCard(t *testing.T) {
	card, ok := ExtractCard("a 4532015112830366|12|25|123 b\n4111111111111111|01|26|999")
	if !ok {
		t.Fatal("expected a card to be extracted")
	}
	if card.Number != "4532015112830366" {
		t.Errorf("expected first match to win, got %s", card.Number)
	}

	if _, ok := ExtractCard("no cards"); ok {
		t.Error("expected no extraction from plain text")
	}
}

func TestCard_Helpers(t *testing.T) {
	card := Card{Number: "371449635398431", Month: "12", Year: "2027", CVV: "1234"}

	if card.BIN() != "371449" {
		t.Errorf("BIN() = %q, want 371449", card.BIN())
	}
	if !card.IsAmex() {
		t.Error("expected 37-prefixed card to be amex")
	}
	if got := card.String(); got != "371449635398431|12|2027|1234" {
		t.Errorf("String() = %q", got)
	}

	visa := Card{Number: "4532015112830366"}
	if visa.IsAmex() {
		t.Error("expected 45-prefixed card not to be amex")
	}
}
