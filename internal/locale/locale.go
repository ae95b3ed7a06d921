// Package locale renders dates, money, numbers, phone numbers and relative
// times for the two back-office locales, Korean and Simplified Chinese.
//
// The locale set is closed. Anything unrecognised falls back to Korean, so
// every formatter always produces output.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the supported UI locales.
type Locale int

const (
	Korean Locale = iota
	SimplifiedChinese

	numLocales
)

// Default is used whenever a locale cannot be determined.
const Default = Korean

var tags = [numLocales]language.Tag{
	Korean:            language.Korean,
	SimplifiedChinese: language.SimplifiedChinese,
}

var codes = [numLocales]string{
	Korean:            "ko",
	SimplifiedChinese: "zh-CN",
}

var matcher = language.NewMatcher(tags[:])

// All lists the supported locales.
func All() []Locale {
	return []Locale{Korean, SimplifiedChinese}
}

// String returns the BCP 47 code used on the wire ("ko", "zh-CN").
func (l Locale) String() string {
	if l < 0 || l >= numLocales {
		return codes[Default]
	}
	return codes[l]
}

// Tag returns the x/text language tag.
func (l Locale) Tag() language.Tag {
	if l < 0 || l >= numLocales {
		return tags[Default]
	}
	return tags[l]
}

func (l Locale) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Locale) UnmarshalText(b []byte) error {
	*l = Parse(string(b))
	return nil
}

// Parse maps a locale string such as "ko", "ko-KR", "zh", "zh-Hans-CN" or
// "zh_CN" to a Locale. Unknown or malformed input yields Default.
func Parse(s string) Locale {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return Default
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	return match(tag)
}

// FromAcceptLanguage picks the best locale for an Accept-Language header.
func FromAcceptLanguage(header string) Locale {
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	return match(prefs...)
}

func match(prefs ...language.Tag) Locale {
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return Locale(idx)
}
