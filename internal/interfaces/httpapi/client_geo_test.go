package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/competitions", nil)
	req.RemoteAddr = "10.0.0.5:41234"
	if got := resolveClientIP(req); got != "10.0.0.5" {
		t.Fatalf("expected socket address, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := resolveClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestResolveCountryCode(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("CF-IPCountry", "xx")
	req.Header.Set("X-Vercel-IP-Country", "de")
	if got := resolveCountryCode(req); got != "DE" {
		t.Fatalf("expected DE, got %q", got)
	}
}
