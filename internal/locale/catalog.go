package locale

import (
	"fmt"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message. The set is closed; every key has a
// translation for every locale (enforced by tests).
type Key int

const (
	JustNow Key = iota
	MinutesAgo
	HoursAgo
	DaysAgo
	LongDate
	InvalidDate

	StatusPaid
	StatusShipped
	StatusDone
	StatusRefunded

	numKeys
)

// Catalog IDs. Arguments are passed pre-rendered as strings so the printer
// does not apply digit grouping to years or counts.
var keyIDs = [numKeys]string{
	JustNow:     "just now",
	MinutesAgo:  "%s minutes ago",
	HoursAgo:    "%s hours ago",
	DaysAgo:     "%s days ago",
	LongDate:    "%[1]s-%[2]s-%[3]s",
	InvalidDate: "Invalid Date",

	StatusPaid:     "Paid",
	StatusShipped:  "Shipped",
	StatusDone:     "Delivered",
	StatusRefunded: "Refunded",
}

var translations = [numKeys][numLocales]string{
	JustNow:     {Korean: "방금 전", SimplifiedChinese: "刚刚"},
	MinutesAgo:  {Korean: "%s분 전", SimplifiedChinese: "%s分钟前"},
	HoursAgo:    {Korean: "%s시간 전", SimplifiedChinese: "%s小时前"},
	DaysAgo:     {Korean: "%s일 전", SimplifiedChinese: "%s天前"},
	LongDate:    {Korean: "%[1]s년 %[2]s월 %[3]s일", SimplifiedChinese: "%[1]s年%[2]s月%[3]s日"},
	InvalidDate: {Korean: "Invalid Date", SimplifiedChinese: "Invalid Date"},

	StatusPaid:     {Korean: "결제완료", SimplifiedChinese: "已付款"},
	StatusShipped:  {Korean: "배송중", SimplifiedChinese: "已发货"},
	StatusDone:     {Korean: "배송완료", SimplifiedChinese: "已完成"},
	StatusRefunded: {Korean: "환불완료", SimplifiedChinese: "已退款"},
}

var printers [numLocales]*message.Printer

func init() {
	b := catalog.NewBuilder(catalog.Fallback(tags[Default]))
	for k := Key(0); k < numKeys; k++ {
		for l := Locale(0); l < numLocales; l++ {
			if err := b.SetString(tags[l], keyIDs[k], translations[k][l]); err != nil {
				panic(fmt.Sprintf("locale: register %q for %s: %v", keyIDs[k], l, err))
			}
		}
	}
	for l := Locale(0); l < numLocales; l++ {
		printers[l] = message.NewPrinter(tags[l], message.Catalog(b))
	}
}

func printer(l Locale) *message.Printer {
	if l < 0 || l >= numLocales {
		l = Default
	}
	return printers[l]
}

// Text renders message k in locale l. String arguments are substituted in
// order.
func Text(l Locale, k Key, args ...string) string {
	if k < 0 || k >= numKeys {
		return ""
	}
	a := make([]any, len(args))
	for i, s := range args {
		a[i] = s
	}
	return printer(l).Sprintf(keyIDs[k], a...)
}

// StatusLabel translates an order status code (PAID, SHIPPED, DONE,
// REFUNDED). Unknown codes are returned unchanged.
func StatusLabel(status string, l Locale) string {
	switch status {
	case "PAID":
		return Text(l, StatusPaid)
	case "SHIPPED":
		return Text(l, StatusShipped)
	case "DONE":
		return Text(l, StatusDone)
	case "REFUNDED":
		return Text(l, StatusRefunded)
	}
	return status
}
