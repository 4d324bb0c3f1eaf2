package deckparse

import (
	"errors"
	"testing"

	"github.com/ramonehamilton/manabase/internal/deck"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "Generic spell", expr: "spell", want: "spell"},
		{name: "Mono land", expr: "W-land", want: "W-land"},
		{name: "Dual land", expr: "WU-land", want: "WU-land"},
		{name: "Tapped dual", expr: "WU-tapped-land", want: "WU-tapped-land"},
		{name: "Fetch land", expr: "R-fetch-land", want: "R-fetch-land"},
		{name: "Colorless land", expr: "land", want: "land"},
		{name: "Tapped colorless", expr: "tapped-land", want: "tapped-land"},
		{name: "Case insensitive", expr: "wu-LAND", want: "WU-land"},
		{name: "Unknown kind", expr: "W-artifact", wantErr: true},
		{name: "Bad color", expr: "X-land", wantErr: true},
		{name: "Double tapped", expr: "tapped-tapped-land", wantErr: true},
		{name: "Two color segments", expr: "W-U-land", wantErr: true},
		{name: "Empty expression", expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCategory(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCategory(%q) expected error, got %v", tt.expr, c)
				}
				var verr *deck.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error is %T, want *deck.ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q): %v", tt.expr, err)
			}
			if got := c.String(); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := `
# two-color manabase
deck 40
8 W-land
8 U-land
1 WU-land
`
	result, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	d := result.Deck
	if d.Size() != 40 {
		t.Errorf("Size() = %d, want 40", d.Size())
	}
	if d.LandCount() != 17 {
		t.Errorf("LandCount() = %d, want 17", d.LandCount())
	}
	if d.SpellCount() != 23 {
		t.Errorf("SpellCount() = %d, want 23", d.SpellCount())
	}
	if d.NumCategories() != 4 {
		t.Errorf("NumCategories() = %d, want 4 (three lands plus filler)", d.NumCategories())
	}
}

func TestParseWithoutHeader(t *testing.T) {
	result, err := Parse("2 G-land\n2 spell\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Deck.Size() != 4 {
		t.Errorf("Size() = %d, want sum of counts 4", result.Deck.Size())
	}
}

func TestParseZeroCountWarning(t *testing.T) {
	result, err := Parse("deck 10\n0 W-land\n3 U-land\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one zero-count warning", result.Warnings)
	}
	w, _ := deck.NewCategory(deck.KindLand, "W", false)
	if result.Deck.Count(w) != 0 {
		t.Errorf("zero-count category present with count %d", result.Deck.Count(w))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Garbage line", input: "deck 40\neight W-land\n"},
		{name: "Unknown color", input: "4 Q-land\n"},
		{name: "Duplicate header", input: "deck 40\ndeck 60\n"},
		{name: "Counts exceed declared size", input: "deck 4\n8 W-land\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("Parse expected error")
			}
			var verr *deck.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error is %T, want *deck.ValidationError", err)
			}
		})
	}
}
