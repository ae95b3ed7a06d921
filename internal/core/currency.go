package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is an ISO 4217 code understood by the converter.
type Currency string

const (
	KRW Currency = "KRW"
	CNY Currency = "CNY"
	USD Currency = "USD"
)

// Conversion is the result of converting an amount between KRW and CNY.
type Conversion struct {
	KRW  float64 `json:"krw"`
	CNY  float64 `json:"cny"`
	Rate float64 `json:"rate"`
}

// Convert converts amount from the given currency using rate (KRW per CNY).
// The source side is copied verbatim; only the other side is computed.
func Convert(amount float64, from Currency, rate float64) (Conversion, error) {
	if err := checkRate(rate); err != nil {
		return Conversion{}, err
	}
	switch Currency(strings.ToUpper(string(from))) {
	case CNY:
		return Conversion{KRW: amount * rate, CNY: amount, Rate: rate}, nil
	case KRW:
		return Conversion{KRW: amount, CNY: amount / rate, Rate: rate}, nil
	default:
		return Conversion{}, invalidArg("unsupported currency %q", from)
	}
}

func checkRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return ErrInvalidRate
	}
	return nil
}

// DualAmount backs a pair of linked KRW/CNY inputs. Editing one side stores it
// verbatim and recomputes the other, so repeated edits on the same field never
// accumulate rounding drift on that field.
type DualAmount struct {
	KRW  float64 `json:"krw"`
	CNY  float64 `json:"cny"`
	Rate float64 `json:"rate"`
}

// NewDualAmount returns an empty pair bound to rate.
func NewDualAmount(rate float64) (*DualAmount, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	return &DualAmount{Rate: rate}, nil
}

// SetKRW records a KRW edit and overwrites the CNY side.
func (d *DualAmount) SetKRW(v float64) {
	d.KRW = v
	d.CNY = v / d.Rate
}

// SetCNY records a CNY edit and overwrites the KRW side.
func (d *DualAmount) SetCNY(v float64) {
	d.CNY = v
	d.KRW = v * d.Rate
}

// DisplayKRW renders the KRW side grouped with no decimals.
func (d DualAmount) DisplayKRW() string { return DisplayKRW(d.KRW) }

// DisplayCNY renders the CNY side with exactly two decimals.
func (d DualAmount) DisplayCNY() string { return DisplayCNY(d.CNY) }

var groupPrinter = message.NewPrinter(language.Korean)

// DisplayKRW rounds v to whole won and groups thousands.
func DisplayKRW(v float64) string {
	r := decimal.NewFromFloat(v).Round(0)
	if r.IsZero() {
		return "0"
	}
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	return sign + groupPrinter.Sprintf("%d", r.IntPart())
}

// DisplayCNY rounds v to two decimals.
func DisplayCNY(v float64) string {
	r := decimal.NewFromFloat(v).Round(2)
	if r.IsZero() {
		r = decimal.Zero
	}
	return r.StringFixed(2)
}

var amountStrip = strings.NewReplacer("₩", "", "¥", "", "￥", "", "$", "", ",", "", " ", "", "원", "", "元", "")

var amountRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount parses a user-entered amount, tolerating currency symbols,
// unit suffixes and thousands separators. Accounting negatives "(1,234)" are
// accepted.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountStrip.Replace(s)
	if !amountRegex.MatchString(s) {
		return 0, invalidArg("invalid amount %q", raw)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "+"), ".")
	if i := strings.IndexByte(s, '.'); i == 0 || (i == 1 && s[0] == '-') {
		s = s[:i] + "0" + s[i:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, invalidArg("invalid amount %q", raw)
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f, nil
}
