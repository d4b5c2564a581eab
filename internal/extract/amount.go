package extract

import (
	"strconv"
	"strings"
)

// ParseSigned parses a locale-formatted amount string with a trailing sign
// marker, e.g. "1.234,56-" → -1234.56. "." is the thousands separator and
// "," the decimal separator. A missing sign marker counts as credit.
// The boolean result is false when the remainder is not numeric; the caller
// decides whether to zero-default or leave the amount unset.
func ParseSigned(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	sign := 1.0
	switch {
	case strings.HasSuffix(s, "+"):
		s = strings.TrimSpace(s[:len(s)-1])
	case strings.HasSuffix(s, "-"):
		sign = -1.0
		s = strings.TrimSpace(s[:len(s)-1])
	}

	v, ok := parseDecimal(s)
	if !ok {
		return 0, false
	}
	return sign * v, true
}

// ParseColumns parses the Soll/Haben two-column encoding: a populated debit
// (Soll) column forces a negative result, a populated credit (Haben) column a
// positive one. At most one column is populated per block; Soll wins when
// both are.
func ParseColumns(soll, haben string) (float64, bool) {
	if s := strings.TrimSpace(soll); s != "" {
		v, ok := parseDecimal(strings.TrimSuffix(s, "-"))
		if !ok {
			return 0, false
		}
		return -v, true
	}
	if h := strings.TrimSpace(haben); h != "" {
		v, ok := parseDecimal(strings.TrimSuffix(h, "+"))
		if !ok {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// FormatSigned renders a value in the trailing-sign encoding, without
// thousands grouping: 1234.5 → "1234,50+", -50 → "50,00-".
func FormatSigned(v float64) string {
	s := strconv.FormatFloat(abs(v), 'f', 2, 64)
	s = strings.ReplaceAll(s, ".", ",")
	if v < 0 {
		return s + "-"
	}
	return s + "+"
}

// FormatColumns renders a value in the Soll/Haben encoding: debits fill the
// Soll column, credits the Haben column.
func FormatColumns(v float64) (soll, haben string) {
	s := strings.ReplaceAll(strconv.FormatFloat(abs(v), 'f', 2, 64), ".", ",")
	if v < 0 {
		return s, ""
	}
	return "", s
}

// parseDecimal parses a German-formatted number: thousands "." stripped,
// decimal "," converted. A leading "-" is honored for sources that use it
// (DKB CSV) instead of the trailing marker.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
