package locale

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"ko", Korean},
		{"ko-KR", Korean},
		{"zh-CN", SimplifiedChinese},
		{"zh_CN", SimplifiedChinese},
		{"zh", SimplifiedChinese},
		{"zh-Hans", SimplifiedChinese},
		{"", Korean},
		{"en-US", Korean},
		{"!!", Korean},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"zh-CN,zh;q=0.9,en;q=0.8", SimplifiedChinese},
		{"ko-KR,ko;q=0.9", Korean},
		{"en-US,en;q=0.9", Korean},
		{"", Korean},
		{"en;q=0.9,zh-CN;q=0.8", SimplifiedChinese},
	}
	for _, tt := range tests {
		if got := FromAcceptLanguage(tt.header); got != tt.want {
			t.Errorf("FromAcceptLanguage(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}
}

func TestLocale_Text(t *testing.T) {
	tests := []struct {
		l    Locale
		want string
	}{
		{Korean, "ko"},
		{SimplifiedChinese, "zh-CN"},
		{Locale(42), "ko"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("Locale(%d).String() = %q, want %q", int(tt.l), got, tt.want)
		}
	}

	b, err := json.Marshal(struct {
		L Locale `json:"locale"`
	}{SimplifiedChinese})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(b) != `{"locale":"zh-CN"}` {
		t.Errorf("json.Marshal() = %s, want %s", b, `{"locale":"zh-CN"}`)
	}

	var v struct {
		L Locale `json:"locale"`
	}
	if err := json.Unmarshal([]byte(`{"locale":"zh-CN"}`), &v); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if v.L != SimplifiedChinese {
		t.Errorf("unmarshalled locale = %s, want %s", v.L, SimplifiedChinese)
	}
}

func TestCatalogComplete(t *testing.T) {
	for k := Key(0); k < numKeys; k++ {
		if keyIDs[k] == "" {
			t.Fatalf("key %d has no id", k)
		}
		for _, l := range All() {
			if translations[k][l] == "" {
				t.Errorf("key %q missing %s translation", keyIDs[k], l)
			}
		}
	}
}

func TestCatalogResolves(t *testing.T) {
	tests := []struct {
		name string
		l    Locale
		k    Key
		args []string
		want string
	}{
		{"just now ko", Korean, JustNow, nil, "방금 전"},
		{"just now zh", SimplifiedChinese, JustNow, nil, "刚刚"},
		{"minutes ko", Korean, MinutesAgo, []string{"5"}, "5분 전"},
		{"minutes zh", SimplifiedChinese, MinutesAgo, []string{"5"}, "5分钟前"},
		{"long date", Korean, LongDate, []string{"2025", "3", "15"}, "2025년 3월 15일"},
		{"unknown key", Korean, numKeys, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.l, tt.k, tt.args...); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status string
		l      Locale
		want   string
	}{
		{"SHIPPED", Korean, "배송중"},
		{"REFUNDED", SimplifiedChinese, "已退款"},
		{"LOST", Korean, "LOST"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.status, tt.l); got != tt.want {
			t.Errorf("StatusLabel(%q, %s) = %q, want %q", tt.status, tt.l, got, tt.want)
		}
	}
}
