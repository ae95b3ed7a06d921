package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		sequence int
		ref      time.Time
		want     string
	}{
		{"first order of the day", 1, time.Date(2025, 3, 15, 10, 0, 0, 0, KST), "ORD-250315-001"},
		{"pads to three digits", 42, time.Date(2025, 3, 15, 10, 0, 0, 0, KST), "ORD-250315-042"},
		{"widens past 999", 1234, time.Date(2025, 3, 15, 10, 0, 0, 0, KST), "ORD-250315-1234"},
		// 15:30 UTC on the 14th is already the 15th in Seoul.
		{"uses KST date", 3, time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC), "ORD-250315-003"},
		{"UTC before KST midnight", 3, time.Date(2025, 3, 14, 14, 59, 0, 0, time.UTC), "ORD-250314-003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateOrderNumber(tt.sequence, tt.ref)
			if err != nil {
				t.Fatalf("GenerateOrderNumber() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GenerateOrderNumber(%d) = %q, want %q", tt.sequence, got, tt.want)
			}
		})
	}
}

func TestGenerateOrderNumber_RejectsBadSequence(t *testing.T) {
	for _, seq := range []int{0, -1} {
		_, err := GenerateOrderNumber(seq, time.Now())
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("GenerateOrderNumber(%d) error = %v, want ErrInvalidArgument", seq, err)
		}
	}
}

func TestGenerateOrderNumber_ZeroRefUsesNow(t *testing.T) {
	got, err := GenerateOrderNumber(1, time.Time{})
	if err != nil {
		t.Fatalf("GenerateOrderNumber() error = %v", err)
	}
	want := "ORD-" + time.Now().In(KST).Format("060102")
	if !strings.HasPrefix(got, want) {
		t.Errorf("GenerateOrderNumber() = %q, want prefix %q", got, want)
	}
}

func TestParseOrderNumber(t *testing.T) {
	n, ok := ParseOrderNumber("ORD-250315-007")
	if !ok {
		t.Fatal("ParseOrderNumber() ok = false, want true")
	}
	if n.Sequence != 7 {
		t.Errorf("Sequence = %d, want 7", n.Sequence)
	}
	if want := time.Date(2025, 3, 15, 0, 0, 0, 0, KST); !n.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", n.Date, want)
	}

	if n, ok := ParseOrderNumber("ORD-250315-1234"); !ok || n.Sequence != 1234 {
		t.Errorf("ParseOrderNumber(wide) = %+v, %v, want sequence 1234", n, ok)
	}

	bad := []string{
		"",
		"ORD-250315-07",
		"ord-250315-007",
		"ORD-251345-001",
		"ORD-250315-000",
		"XYZ-250315-001",
		// never generated: widened sequences carry no leading zero
		"ORD-250315-0001",
		"ORD-250315-0999",
	}
	for _, s := range bad {
		if _, ok := ParseOrderNumber(s); ok {
			t.Errorf("ParseOrderNumber(%q) ok = true, want false", s)
		}
	}
}

func TestOrderNumberRoundTrip(t *testing.T) {
	ref := time.Date(2024, 12, 31, 23, 0, 0, 0, KST)
	for _, seq := range []int{1, 15, 999, 1000, 12345} {
		num, err := GenerateOrderNumber(seq, ref)
		if err != nil {
			t.Fatalf("GenerateOrderNumber(%d) error = %v", seq, err)
		}
		n, ok := ParseOrderNumber(num)
		if !ok {
			t.Fatalf("ParseOrderNumber(%q) ok = false", num)
		}
		if n.Sequence != seq {
			t.Errorf("Sequence = %d, want %d", n.Sequence, seq)
		}
		if !n.Date.Equal(OrderDay(ref)) {
			t.Errorf("Date = %v, want %v", n.Date, OrderDay(ref))
		}
	}
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU(SKUInput{Category: "bag", Model: "Speedy 30", Color: "brown", Brand: "Louis Vuitton"})
	if err != nil {
		t.Fatalf("GenerateSKU() error = %v", err)
	}

	if !ValidateSKU(sku) {
		t.Errorf("ValidateSKU(%q) = false", sku)
	}
	if got := SKUPrefix(sku); got != "BAG-Speedy30-BRO-LOU" {
		t.Errorf("SKUPrefix() = %q, want %q", got, "BAG-Speedy30-BRO-LOU")
	}

	parts, ok := ParseSKU(sku)
	if !ok {
		t.Fatalf("ParseSKU(%q) ok = false", sku)
	}
	want := SKUParts{Category: "BAG", Model: "Speedy30", Color: "BRO", Brand: "LOU", Hash: parts.Hash}
	if parts != want {
		t.Errorf("ParseSKU() = %+v, want %+v", parts, want)
	}
	if len(parts.Hash) != 5 {
		t.Errorf("len(Hash) = %d, want 5", len(parts.Hash))
	}
}

func TestGenerateSKU_Normalization(t *testing.T) {
	tests := []struct {
		name   string
		in     SKUInput
		prefix string
	}{
		{"short codes are padded", SKUInput{Category: "b", Model: "m1", Color: "re", Brand: "x"}, "BXX-m1-REX-XXX"},
		{"punctuation stripped", SKUInput{Category: "a-c.c", Model: "No.5 (EDP)", Color: "g/ld", Brand: "C&C"}, "ACC-No5EDP-GLD-CCX"},
		{"hangul model kept", SKUInput{Category: "bag", Model: "클래식 플랩", Color: "black", Brand: "chanel"}, "BAG-클래식플랩-BLA-CHA"},
		{"hangul codes padded", SKUInput{Category: "가방", Model: "Alma", Color: "검정", Brand: "lv"}, "가방X-Alma-검정X-LVX"},
		{"han codes truncated", SKUInput{Category: "女士手提包", Model: "Alma", Color: "黑色", Brand: "路易威登"}, "女士手-Alma-黑色X-路易威"},
		{"long model truncated", SKUInput{Category: "acc", Model: strings.Repeat("ab", 15), Color: "red", Brand: "gucci"}, "ACC-" + strings.Repeat("ab", 10) + "-RED-GUC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku, err := GenerateSKU(tt.in)
			if err != nil {
				t.Fatalf("GenerateSKU() error = %v", err)
			}
			if got := SKUPrefix(sku); got != tt.prefix {
				t.Errorf("SKUPrefix() = %q, want %q", got, tt.prefix)
			}
			if !ValidateSKU(sku) {
				t.Errorf("ValidateSKU(%q) = false, want true", sku)
			}
			parts, ok := ParseSKU(sku)
			if !ok {
				t.Fatalf("ParseSKU(%q) ok = false", sku)
			}
			if got := strings.Join([]string{parts.Category, parts.Model, parts.Color, parts.Brand}, "-"); got != tt.prefix {
				t.Errorf("ParseSKU() segments = %q, want %q", got, tt.prefix)
			}
		})
	}
}

func TestGenerateSKU_MissingFields(t *testing.T) {
	_, err := GenerateSKU(SKUInput{Category: "bag", Model: "  "})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("GenerateSKU() error = %v, want ErrInvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "model, color, brand") {
		t.Errorf("error = %q, want it to name model, color, brand", err)
	}

	_, err = GenerateSKU(SKUInput{Category: "bag", Model: "---", Color: "red", Brand: "x"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GenerateSKU(unusable model) error = %v, want ErrInvalidArgument", err)
	}
}

func TestGenerateSKU_HashVaries(t *testing.T) {
	in := SKUInput{Category: "bag", Model: "Alma", Color: "black", Brand: "lv"}
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sku, err := GenerateSKU(in)
		if err != nil {
			t.Fatalf("GenerateSKU() error = %v", err)
		}
		seen[sku] = true
	}
	if len(seen) < 2 {
		t.Errorf("20 calls produced %d distinct SKUs, want more than 1", len(seen))
	}
}

func TestValidateSKU(t *testing.T) {
	tests := []struct {
		sku  string
		want bool
	}{
		{"BAG-Speedy30-BRO-LOU-7K2QF", true},
		{"BAG-클래식-BLA-CHA-00000", true},
		{"가방X-Alma-검정X-LVX-IE799", true},
		{"BAG-Speedy30-BRO-LOU", false},
		{"bag-Speedy30-BRO-LOU-7K2QF", false},
		{"BAG-Speedy30-BRO-LOU-7k2qf", false},
		{"BAG--BRO-LOU-7K2QF", false},
		{"가방-Alma-BLA-LVX-IE799", false},
		{"BAG-Alma-BLA-LVX-가방가방가", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateSKU(tt.sku); got != tt.want {
			t.Errorf("ValidateSKU(%q) = %v, want %v", tt.sku, got, tt.want)
		}
	}

	if _, ok := ParseSKU("nope"); ok {
		t.Error("ParseSKU(\"nope\") ok = true, want false")
	}
}
