// Package util provides common utility functions used across the bridge.
package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// Contains reports whether slice contains str.
func Contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// SplitFields splits a scene script line into whitespace-separated
// fields. Double-quoted spans stay together and keep their quotes, so
// callers normalize fields with TrimQuotes and FixEscapeQuotes. A
// doubled quote inside a quoted span is the escape for a literal
// quote and passes through unchanged.
func SplitFields(line string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false

	flush := func() {
		if b.Len() > 0 {
			fields = append(fields, b.String())
			b.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return fields
}

// ErrInvalidPixelPair indicates a malformed "WxH" value.
var ErrInvalidPixelPair = errors.New("invalid pixel pair")

// ParsePixelPair parses a "WxH" pixel dimension pair such as "25x41".
// Negative components are allowed, anchors sit below or left of the
// origin routinely.
func ParsePixelPair(s string) (w, h int, err error) {
	first, second, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPixelPair, s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPixelPair, s)
	}
	h, err = strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPixelPair, s)
	}
	return w, h, nil
}
