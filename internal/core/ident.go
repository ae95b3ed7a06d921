package core

// ident.go generates and parses the two identifier families persisted by the
// back-office: order numbers and product SKUs.
//
// Order numbers have the shape ORD-YYMMDD-NNN. The date is always taken in
// KST (UTC+9) regardless of the host timezone, and the sequence is supplied by
// the caller (usually "orders already placed today + 1"), so generation is a
// pure function of its arguments.
//
// SKUs have the shape CAT-Model-COL-BRD-HASH. The hash is drawn fresh on every
// call, so identical attribute sets produce distinct SKUs. Collisions inside
// the 36^5 hash space are accepted and not checked.

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/JonMunkholm/backoffice/internal/clock"
)

// KST is the fixed zone used for every calendar-date computation.
var KST = clock.KST

const (
	orderNumberPrefix = "ORD"
	orderDateLayout   = "060102"

	skuCodeLen     = 3
	skuModelMaxLen = 20
	skuHashLen     = 5
	skuPad         = 'X'
	skuAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	orderNumberRegex = regexp.MustCompile(`^ORD-(\d{6})-(\d{3}|[1-9]\d{3,})$`)
	skuRegex         = regexp.MustCompile(`^[A-Z0-9\p{Hangul}\p{Han}]{3}-[A-Za-z0-9\p{Hangul}\p{Han}]+-[A-Z0-9\p{Hangul}\p{Han}]{3}-[A-Z0-9\p{Hangul}\p{Han}]{3}-[A-Z0-9]{5}$`)
)

// GenerateOrderNumber formats an order number for the given sequence and
// reference instant. A zero ref means the current instant. Sequences above
// 999 widen beyond three digits rather than being truncated.
func GenerateOrderNumber(sequence int, ref time.Time) (string, error) {
	if sequence < 1 {
		return "", invalidArg("order sequence must be >= 1, got %d", sequence)
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	return fmt.Sprintf("%s-%s-%03d", orderNumberPrefix, ref.In(KST).Format(orderDateLayout), sequence), nil
}

// OrderNumber is the parsed form of an order number.
type OrderNumber struct {
	Date     time.Time // midnight KST of the order date
	Sequence int
}

// ParseOrderNumber is the inverse of GenerateOrderNumber. It reports false for
// anything that is not a well-formed order number.
func ParseOrderNumber(s string) (OrderNumber, bool) {
	m := orderNumberRegex.FindStringSubmatch(s)
	if m == nil {
		return OrderNumber{}, false
	}
	date, err := time.ParseInLocation(orderDateLayout, m[1], KST)
	if err != nil {
		return OrderNumber{}, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil || seq < 1 {
		return OrderNumber{}, false
	}
	return OrderNumber{Date: date, Sequence: seq}, true
}

// OrderDay returns midnight KST of the calendar day containing t.
func OrderDay(t time.Time) time.Time {
	return clock.Day(t)
}

// SKUInput holds the product attributes a SKU is derived from.
type SKUInput struct {
	Category string `json:"category"`
	Model    string `json:"model"`
	Color    string `json:"color"`
	Brand    string `json:"brand"`
}

// SKUParts is the decomposed form of a SKU.
type SKUParts struct {
	Category string `json:"category"`
	Model    string `json:"model"`
	Color    string `json:"color"`
	Brand    string `json:"brand"`
	Hash     string `json:"hash"`
}

// GenerateSKU builds a SKU from the normalized attributes plus a random hash.
func GenerateSKU(in SKUInput) (string, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"category", in.Category},
		{"model", in.Model},
		{"color", in.Color},
		{"brand", in.Brand},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", invalidArg("sku requires %s", strings.Join(missing, ", "))
	}

	model := normalizeModel(in.Model)
	if model == "" {
		return "", invalidArg("sku model %q has no usable characters", in.Model)
	}

	hash, err := randomHash(skuHashLen)
	if err != nil {
		return "", fmt.Errorf("sku hash: %w", err)
	}

	return strings.Join([]string{
		normalizeCode(in.Category),
		model,
		normalizeCode(in.Color),
		normalizeCode(in.Brand),
		hash,
	}, "-"), nil
}

// ValidateSKU reports whether s has the SKU shape.
func ValidateSKU(s string) bool {
	return skuRegex.MatchString(s)
}

// ParseSKU splits a valid SKU into its segments. Invalid input reports false.
func ParseSKU(s string) (SKUParts, bool) {
	if !ValidateSKU(s) {
		return SKUParts{}, false
	}
	seg := strings.Split(s, "-")
	if len(seg) != 5 {
		return SKUParts{}, false
	}
	return SKUParts{
		Category: seg[0],
		Model:    seg[1],
		Color:    seg[2],
		Brand:    seg[3],
		Hash:     seg[4],
	}, true
}

// SKUPrefix returns the SKU without its hash segment.
func SKUPrefix(s string) string {
	if i := strings.LastIndex(s, "-"); i >= 0 {
		return s[:i]
	}
	return s
}

// stripSKU keeps ASCII letters and digits plus Hangul and Han characters.
func stripSKU(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			out = append(out, r)
		case unicode.Is(unicode.Hangul, r), unicode.Is(unicode.Han, r):
			out = append(out, r)
		}
	}
	return out
}

func normalizeCode(s string) string {
	r := []rune(strings.ToUpper(string(stripSKU(s))))
	if len(r) > skuCodeLen {
		r = r[:skuCodeLen]
	}
	for len(r) < skuCodeLen {
		r = append(r, skuPad)
	}
	return string(r)
}

func normalizeModel(s string) string {
	r := stripSKU(s)
	if len(r) > skuModelMaxLen {
		r = r[:skuModelMaxLen]
	}
	return string(r)
}

// randomHash draws n characters from skuAlphabet using crypto/rand, which is
// safe for concurrent use without extra locking.
func randomHash(n int) (string, error) {
	max := big.NewInt(int64(len(skuAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = skuAlphabet[idx.Int64()]
	}
	return string(b), nil
}
