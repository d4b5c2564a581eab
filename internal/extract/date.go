package extract

import (
	"fmt"
	"regexp"
)

var (
	fullDateRe  = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2,4})$`)
	shortDateRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.$`)
	yearTokenRe = regexp.MustCompile(`\b\d{2}\.\d{2}\.(\d{2,4})\b`)
)

// NormalizeDate converts "dd.mm.yy", "dd.mm.yyyy" or the year-elided
// "dd.mm." form into ISO "yyyy-mm-dd". Two-digit years are expanded with a
// fixed "20" prefix, so statements before 2000 or after 2099 are out of
// range. The year-elided form needs the document-scoped inferred year; if
// none is available, or the input matches neither shape, the input is
// returned unmodified as a signal of non-normalization.
func NormalizeDate(s, inferredYear string) string {
	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", expandYear(m[3]), m[2], m[1])
	}
	if m := shortDateRe.FindStringSubmatch(s); m != nil && inferredYear != "" {
		return fmt.Sprintf("%s-%s-%s", inferredYear, m[2], m[1])
	}
	return s
}

// InferYear derives the document-scoped year from the first full dated token
// found anywhere in the text. Returns "" when the document carries no dated
// token. Documents spanning a year boundary get a single year; see the
// normalizer note above.
func InferYear(text string) string {
	m := yearTokenRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return expandYear(m[1])
}

func expandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}
