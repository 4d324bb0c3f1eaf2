// Package deckparse turns a textual decklist into a validated deck. The
// format is one category per line:
//
//	deck 40
//	8 W-land
//	8 U-land
//	1 WU-land
//	4 R-fetch-land
//	2 WU-tapped-land
//	# comments and blank lines are skipped
//
// A category expression is an optional color string (WUBRG letters), an
// optional "tapped" flag and a kind, joined by dashes. The optional
// "deck <size>" header declares the total size; without it, the size is
// the sum of the listed counts. Slots not covered by listed categories are
// filled with generic spells by deck.Build.
package deckparse

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/manabase/internal/deck"
)

// Result carries the parsed deck plus any per-line warnings.
type Result struct {
	Deck     *deck.Deck
	Size     int
	Warnings []string
}

var (
	headerRegex = regexp.MustCompile(`^(?i)deck\s+(\d+)$`)
	lineRegex   = regexp.MustCompile(`^(\d+)\s+([A-Za-z-]+)$`)
)

// Parse parses a decklist. Malformed lines and invalid categories are
// ValidationErrors reported with their line number.
func Parse(input string) (*Result, error) {
	var (
		entries   []deck.Entry
		size      = -1
		sum       int
		warnings  []string
		sawHeader bool
	)

	for lineNo, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := headerRegex.FindStringSubmatch(line); m != nil {
			if sawHeader {
				return nil, &deck.ValidationError{Msg: fmt.Sprintf("line %d: duplicate deck header", lineNo+1)}
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &deck.ValidationError{Msg: fmt.Sprintf("line %d: bad deck size: %v", lineNo+1, err)}
			}
			size = n
			sawHeader = true
			continue
		}

		m := lineRegex.FindStringSubmatch(line)
		if m == nil {
			return nil, &deck.ValidationError{Msg: fmt.Sprintf("line %d: cannot parse %q (want \"<count> <category>\")", lineNo+1, line)}
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &deck.ValidationError{Msg: fmt.Sprintf("line %d: bad count: %v", lineNo+1, err)}
		}
		if count == 0 {
			warnings = append(warnings, fmt.Sprintf("line %d: zero-count entry ignored", lineNo+1))
			continue
		}
		category, err := ParseCategory(m[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		entries = append(entries, deck.Entry{Category: category, Count: count})
		sum += count
	}

	if size < 0 {
		size = sum
	}
	d, err := deck.Build(entries, size)
	if err != nil {
		return nil, err
	}
	return &Result{Deck: d, Size: size, Warnings: warnings}, nil
}

// ParseFile parses a decklist from a file.
func ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	return Parse(string(data))
}

// ParseCategory parses a single category expression such as "spell",
// "W-land", "WU-tapped-land" or "R-fetch-land".
func ParseCategory(expr string) (deck.Category, error) {
	rest := strings.ToLower(expr)

	var kind deck.Kind
	switch {
	case rest == "spell" || strings.HasSuffix(rest, "-spell"):
		kind = deck.KindSpell
		rest = strings.TrimSuffix(strings.TrimSuffix(rest, "spell"), "-")
	case rest == "fetch-land" || strings.HasSuffix(rest, "-fetch-land"):
		kind = deck.KindFetchLand
		rest = strings.TrimSuffix(strings.TrimSuffix(rest, "fetch-land"), "-")
	case rest == "land" || strings.HasSuffix(rest, "-land"):
		kind = deck.KindLand
		rest = strings.TrimSuffix(strings.TrimSuffix(rest, "land"), "-")
	default:
		return deck.Category{}, &deck.ValidationError{Msg: fmt.Sprintf("category %q has no kind (want land, fetch-land or spell)", expr)}
	}

	tapped := false
	colors := ""
	if rest != "" {
		for _, part := range strings.Split(rest, "-") {
			switch {
			case part == "tapped":
				if tapped {
					return deck.Category{}, &deck.ValidationError{Msg: fmt.Sprintf("category %q repeats tapped", expr)}
				}
				tapped = true
			case part == "":
				return deck.Category{}, &deck.ValidationError{Msg: fmt.Sprintf("category %q has an empty segment", expr)}
			default:
				if colors != "" {
					return deck.Category{}, &deck.ValidationError{Msg: fmt.Sprintf("category %q has multiple color segments", expr)}
				}
				colors = part
			}
		}
	}

	return deck.NewCategory(kind, colors, tapped)
}
