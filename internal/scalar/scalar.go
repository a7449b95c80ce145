// Package scalar extracts amounts, dates, and state codes from noisy
// OCR-extracted values. Parsers never fail: absence of a usable value is
// signaled by an invalid NullDecimal, a nil time, or an empty string.
package scalar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// nonAmount matches every character that is not a digit, dot, or minus.
var nonAmount = regexp.MustCompile(`[^0-9.\-]+`)

// digitRun matches the first digit run with an optional decimal point;
// commas inside the run are removed before parsing.
var digitRun = regexp.MustCompile(`(\d+[.,]?\d*)`)

// ParseAmount parses a monetary amount from an arbitrary extracted value.
// Numeric values pass through unchanged. Text is stripped to digits, dot,
// and minus; if that fails to parse, the first digit run is used instead.
func ParseAmount(v any) decimal.NullDecimal {
	switch val := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NullDecimal{Decimal: val, Valid: true}
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(val), Valid: true}
	case float32:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat32(val), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(val)), Valid: true}
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(val), Valid: true}
	case string:
		return parseAmountString(val)
	default:
		return parseAmountString(fmt.Sprint(v))
	}
}

func parseAmountString(s string) decimal.NullDecimal {
	stripped := nonAmount.ReplaceAllString(s, "")
	if stripped != "" {
		if d, err := decimal.NewFromString(stripped); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	if m := digitRun.FindString(s); m != "" {
		m = strings.ReplaceAll(m, ",", "")
		if d, err := decimal.NewFromString(m); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

// dateLayouts are tried in order. Day-first forms come first: the regime
// modeled here writes 15/03/2024, not 03/15/2024.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006",
	"02-01-2006", "2-1-2006",
	"2006-01-02", "2006/01/02",
	"02/01/06", "2/1/06",
	"02-01-06", "2-1-06",
	"02 Jan 2006", "2 Jan 2006",
	"02 January 2006", "2 January 2006",
	"Jan 2, 2006", "January 2, 2006",
	time.RFC3339,
}

// ParseDate leniently parses a calendar date from an extracted value,
// preferring day-first interpretations. Returns nil when no layout matches.
func ParseDate(v any) *time.Time {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case time.Time:
		d := val
		return &d
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// rawDate matches D[/-]M[/-]Y with a 1-2 digit day and month and a 2 or 4
// digit year, anywhere in free text.
var rawDate = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

// FindDate scans free text for the first D/M/Y-shaped substring and parses
// it, swapping day and month when the day-first reading is impossible.
func FindDate(raw string) *time.Time {
	m := rawDate.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		// time.Date normalized an impossible day (e.g. 31/02).
		return nil
	}
	return &t
}

// twoDigits matches the first two-digit run in a string.
var twoDigits = regexp.MustCompile(`\d{2}`)

// StateCode extracts the 2-digit GST state code from a GSTIN: the first two
// characters when both are digits, otherwise the first 2-digit run anywhere
// in the string. Returns "" when nothing matches.
func StateCode(gstin string) string {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) >= 2 && isDigit(gstin[0]) && isDigit(gstin[1]) {
		return gstin[:2]
	}
	return twoDigits.FindString(gstin)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
