package middleware

import (
	"net/http"
	"regexp"

	"moleculehub/internal/domain"
)

// PrincipalHeader names the caller for attribution in audit entries and
// created_by columns. It is not verified.
const PrincipalHeader = "X-Principal"

var validPrincipal = regexp.MustCompile(`^[A-Za-z0-9._@+-]{1,128}$`)

// Principal stores the caller named by the X-Principal header in the request
// context. A missing or malformed header yields domain.AnonymousPrincipal.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get(PrincipalHeader)
		if !validPrincipal.MatchString(name) {
			name = domain.AnonymousPrincipal
		}
		ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
