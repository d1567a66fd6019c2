// Package middleware holds the HTTP wrappers applied around the API mux.
package middleware

import (
	"net/http"

	"github.com/diewo77/go-crm/i18n"
)

const langCookie = "lang"

// Prefs resolves the response language (query > cookie > Accept-Language) and
// stores it in the request context. A ?lang= value is persisted in a cookie
// for ~30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(i18n.Normalize(c.Value)) {
			lang = i18n.Normalize(c.Value)
		}
		if ql := i18n.Normalize(r.URL.Query().Get("lang")); i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30, HttpOnly: true})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
