package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_ExplicitOrigin(t *testing.T) {
	h := CORS([]string{"https://sslctoppers.com"}, "X-Toppers-Session-ID")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Origin", "https://sslctoppers.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://sslctoppers.com" {
		t.Errorf("Expected origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected credentials allowed, got %q", got)
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	h := CORS([]string{"https://sslctoppers.com"}, "X-Toppers-Session-ID")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header, got %q", got)
	}
}

func TestCORS_WildcardNoCredentials(t *testing.T) {
	h := CORS([]string{"*"}, "X-Toppers-Session-ID")(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/theme/toggle", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Expected preflight to be allowed")
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Expected no credentials for wildcard, got %q", got)
	}
}
