package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"moleculehub/internal/domain"
)

func TestPrincipal(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"alice", "alice"},
		{"bob.smith@lab.example", "bob.smith@lab.example"},
		{"", domain.AnonymousPrincipal},
		{"eve\nadmin", domain.AnonymousPrincipal},
		{"has space", domain.AnonymousPrincipal},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			var got string
			handler := Principal(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = domain.PrincipalName(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(PrincipalHeader, tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
