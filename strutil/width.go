// Package strutil measures and cuts strings by terminal column width and
// converts between text and encoded bytes.
//
// Column widths follow the Unicode East Asian Width property: Fullwidth,
// Wide and Ambiguous characters take two columns, everything else one.
package strutil

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var (
	// ErrFillWidth is returned when a justify fill character is not exactly one column wide.
	ErrFillWidth = errors.New("fill character must be exactly one column wide")

	// ErrNegativePadding is returned when a justify call asks for negative padding.
	ErrNegativePadding = errors.New("minimum padding must not be negative")
)

// columns maps an East Asian Width category to the number of columns it occupies.
var columns = map[width.Kind]int{
	width.EastAsianFullwidth: 2, // F
	width.EastAsianHalfwidth: 1, // H
	width.EastAsianWide:      2, // W
	width.EastAsianNarrow:    1, // Na
	width.EastAsianAmbiguous: 2, // A
	width.Neutral:            1, // N
}

// RuneWidth returns the number of columns r occupies.
func RuneWidth(r rune) int {
	if n, ok := columns[width.LookupRune(r).Kind()]; ok {
		return n
	}
	return 1
}

// Width returns the column width of s.
// Invalid UTF-8 bytes count as U+FFFD, which is Ambiguous and therefore two columns.
func Width(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// BytesWidth returns the width of undecoded data, which is its length.
func BytesWidth(b []byte) int {
	return len(b)
}

// TruncateLeft returns the longest prefix of s that fits in maxWidth columns.
// A wide character that would overflow maxWidth is dropped entirely.
func TruncateLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	used := 0
	for i, r := range s {
		used += RuneWidth(r)
		if used > maxWidth {
			return s[:i]
		}
	}
	return s
}

// TruncateRight returns the longest suffix of s that fits in maxWidth columns.
func TruncateRight(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	used := 0
	end := len(s)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		used += RuneWidth(r)
		if used > maxWidth {
			break
		}
		end -= size
	}
	return s[end:]
}

// Justify joins left and right with enough fill characters to make the result
// total columns wide, but never fewer than minPadding of them.
func Justify(left, right string, total int, fill rune, minPadding int) (string, error) {
	if w := RuneWidth(fill); w != 1 {
		return "", fmt.Errorf("fill %q has width %d: %w", fill, w, ErrFillWidth)
	}
	if minPadding < 0 {
		return "", fmt.Errorf("minPadding %d: %w", minPadding, ErrNegativePadding)
	}
	padding := max(minPadding, total-Width(left)-Width(right))
	return left + strings.Repeat(string(fill), padding) + right, nil
}

// EdgeJust pushes left and right to the edges of a total-column line,
// keeping at least one space between them.
func EdgeJust(left, right string, total int) string {
	s, _ := Justify(left, right, total, ' ', 1)
	return s
}

// LeftJust pads s on the right to total columns.
func LeftJust(s string, total int, fill rune) (string, error) {
	return Justify(s, "", total, fill, 0)
}

// RightJust pads s on the left to total columns.
func RightJust(s string, total int, fill rune) (string, error) {
	return Justify("", s, total, fill, 0)
}
