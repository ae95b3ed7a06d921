package locale

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/backoffice/internal/clock"
)

// Layouts accepted by FormatDateString. Zone-less layouts are read as KST.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// FormatDate renders the KST calendar date of t in the locale's long form,
// e.g. "2025년 3월 15일" or "2025年3月15日". A zero time renders as "".
func FormatDate(t time.Time, l Locale) string {
	if t.IsZero() {
		return ""
	}
	y, m, d := t.In(clock.KST).Date()
	return Text(l, LongDate, strconv.Itoa(y), strconv.Itoa(int(m)), strconv.Itoa(d))
}

// FormatDateString parses raw with the known layouts and formats it like
// FormatDate. Empty input renders as ""; unparseable input as "Invalid Date".
func FormatDateString(raw string, l Locale) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, clock.KST); err == nil {
			return FormatDate(t, l)
		}
	}
	return Text(l, InvalidDate)
}

var currencySymbols = map[string]string{
	"KRW": "₩",
	"CNY": "¥",
	"USD": "$",
}

// FormatCurrency renders amount with the currency symbol and grouped digits.
// KRW has no decimals; everything else has two. A negative amount keeps its
// minus sign next to the digits ("₩-1,234"). Unknown codes are prefixed with
// the code itself.
func FormatCurrency(amount float64, code string, l Locale) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	places := int32(2)
	if code == "KRW" {
		places = 0
	}
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	d := decimal.NewFromFloat(amount).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	out := symbol + sign + groupInt(d, l)
	if places > 0 {
		fixed := d.StringFixed(places)
		out += fixed[strings.IndexByte(fixed, '.'):]
	}
	return out
}

// FormatNumber groups thousands and keeps at most two decimals, dropping
// trailing zeros: 1234.5 → "1,234.5", 1000 → "1,000", 0.125 → "0.13".
func FormatNumber(v float64, l Locale) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	out := sign + groupInt(d, l)
	if s := d.String(); strings.IndexByte(s, '.') >= 0 {
		out += s[strings.IndexByte(s, '.'):]
	}
	return out
}

// groupInt renders the integer part of a non-negative d with the locale's
// digit grouping.
func groupInt(d decimal.Decimal, l Locale) string {
	return printer(l).Sprintf("%d", d.IntPart())
}

// FormatPhoneNumber re-inserts dashes into a Korean phone number:
//
//	01012345678 → 010-1234-5678
//	0212345678  → 02-1234-5678
//	021234567   → 02-123-4567
//	0311234567  → 031-123-4567
//
// Input that is not a recognised digit count is returned unchanged, as is any
// input in a non-Korean locale.
func FormatPhoneNumber(raw string, l Locale) string {
	if raw == "" || l != Korean {
		return raw
	}
	digits := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return raw
		}
	}

	seoul := strings.HasPrefix(digits, "02")
	switch {
	case len(digits) == 11:
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	case len(digits) == 10 && seoul:
		return digits[:2] + "-" + digits[2:6] + "-" + digits[6:]
	case len(digits) == 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	case len(digits) == 9 && seoul:
		return digits[:2] + "-" + digits[2:5] + "-" + digits[5:]
	}
	return raw
}

// FormatRelativeTime describes how long before now t happened. Future times
// fall back to FormatDate. A zero time renders as "".
func FormatRelativeTime(t time.Time, l Locale, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	delta := now.Sub(t)
	switch {
	case delta < 0:
		return FormatDate(t, l)
	case delta < time.Minute:
		return Text(l, JustNow)
	case delta < time.Hour:
		return Text(l, MinutesAgo, strconv.Itoa(int(delta/time.Minute)))
	case delta < 24*time.Hour:
		return Text(l, HoursAgo, strconv.Itoa(int(delta/time.Hour)))
	default:
		return Text(l, DaysAgo, strconv.Itoa(int(delta/(24*time.Hour))))
	}
}
