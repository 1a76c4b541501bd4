package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTracedSpan(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.EvaluateRound", want: true},
		{in: "httpapi.RequireAuth", want: true},
		{in: "httpapi.RequireInternalJobToken", want: true},
		{in: "httpapi.RequestLogging", want: false},
		{in: "httpapi.writeError", want: false},
		{in: "", want: false},
	}
	for _, tt := range tests {
		if got := isTracedSpan(tt.in); got != tt.want {
			t.Fatalf("isTracedSpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestRequestLoggingRecordsCaller(t *testing.T) {
	tests := []struct {
		name   string
		inner  func(http.Handler) http.Handler
		header map[string]string
		want   []string
	}{
		{
			name:  "anonymous",
			inner: func(h http.Handler) http.Handler { return h },
			want:  []string{`"caller":"anonymous"`},
		},
		{
			name: "authenticated user",
			inner: func(h http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					ctx := withPrincipal(r.Context(), user.Principal{UserID: "u-7", Role: user.RoleUser})
					h.ServeHTTP(w, r.WithContext(ctx))
				})
			},
			want: []string{`"caller":"user"`, `"user_id":"u-7"`},
		},
		{
			name:   "internal job",
			inner:  func(h http.Handler) http.Handler { return RequireInternalJobToken("secret", h) },
			header: map[string]string{"X-Internal-Job-Token": "secret"},
			want:   []string{`"caller":"job"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(logging.Options{Writer: &buf, Level: logging.LevelInfo, Service: "test"})
			ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

			req := httptest.NewRequest(http.MethodGet, "/v1/games", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			RequestLogging(logger, tt.inner(ok)).ServeHTTP(rec, req)

			require.Equal(t, http.StatusNoContent, rec.Code)
			for _, fragment := range tt.want {
				assert.Contains(t, buf.String(), fragment)
			}
		})
	}
}
