package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/i18n"
)

// Recover turns a panic into a 500 JSON answer.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				httpx.JSONError(w, http.StatusInternalServerError, i18n.T(i18n.LangFromContext(r.Context()), "internal_error"), nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
