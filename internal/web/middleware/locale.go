package middleware

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/backoffice/internal/locale"
)

type localeKey struct{}

// Locale picks the display locale from ?lang=, then Accept-Language, then def.
func Locale(def locale.Locale) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := def
			if q := r.URL.Query().Get("lang"); q != "" {
				l = locale.Parse(q)
			} else if h := r.Header.Get("Accept-Language"); h != "" {
				l = locale.FromAcceptLanguage(h)
			}
			w.Header().Set("Content-Language", l.String())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, l)))
		})
	}
}

// LocaleFromContext returns the request locale, or locale.Default.
func LocaleFromContext(ctx context.Context) locale.Locale {
	if l, ok := ctx.Value(localeKey{}).(locale.Locale); ok {
		return l
	}
	return locale.Default
}
