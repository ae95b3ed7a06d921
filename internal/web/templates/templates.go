// Package templates holds the HTML fragments served to HTMX clients.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error banner with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p class="alert-message">%s</p>`,
			templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<p class="alert-code">%s</p></div>`, templ.EscapeString(code))
		return err
	})
}

// OrderLine is one formatted row of an order summary.
type OrderLine struct {
	ProductID string
	Quantity  string
	Price     string
	Subtotal  string
}

// OrderSummaryData is the pre-formatted content of an order card.
type OrderSummaryData struct {
	Lang           string
	OrderNumber    string
	Status         string
	StatusLabel    string
	CustomerName   string
	CustomerPhone  string
	Address        string
	Lines          []OrderLine
	Total          string
	TotalCNY       string
	Courier        string
	TrackingNumber string
	TrackingURL    string
	CreatedAt      string
	CreatedAgo     string
}

// OrderSummary renders an order card. All text arrives already localized.
func OrderSummary(d OrderSummaryData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := func(s string) string { return templ.EscapeString(s) }
		sw := &stickyWriter{w: w}

		sw.printf(`<article class="order-summary" lang="%s" data-status="%s">`, e(d.Lang), e(d.Status))
		sw.printf(`<header><h2>%s</h2><span class="badge status-%s">%s</span></header>`,
			e(d.OrderNumber), e(d.Status), e(d.StatusLabel))
		sw.printf(`<p class="created"><time title="%s">%s</time></p>`, e(d.CreatedAt), e(d.CreatedAgo))
		sw.printf(`<dl><dt>Customer</dt><dd>%s</dd><dt>Phone</dt><dd>%s</dd><dt>Address</dt><dd>%s</dd></dl>`,
			e(d.CustomerName), e(d.CustomerPhone), e(d.Address))

		sw.printf(`<table class="lines"><tbody>`)
		for _, l := range d.Lines {
			sw.printf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				e(l.ProductID), e(l.Quantity), e(l.Price), e(l.Subtotal))
		}
		sw.printf(`</tbody></table>`)

		sw.printf(`<p class="total">%s`, e(d.Total))
		if d.TotalCNY != "" {
			sw.printf(` <span class="total-cny">(%s)</span>`, e(d.TotalCNY))
		}
		sw.printf(`</p>`)

		if d.TrackingNumber != "" {
			sw.printf(`<p class="tracking">%s `, e(d.Courier))
			if d.TrackingURL != "" {
				sw.printf(`<a href="%s" target="_blank" rel="noopener">%s</a>`,
					e(string(templ.URL(d.TrackingURL))), e(d.TrackingNumber))
			} else {
				sw.printf(`%s`, e(d.TrackingNumber))
			}
			sw.printf(`</p>`)
		}
		sw.printf(`</article>`)
		return sw.err
	})
}

// stickyWriter keeps the first write error so templates can print freely.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}
