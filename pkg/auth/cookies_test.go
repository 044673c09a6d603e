package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmarquez/autoglass-backend/pkg/config"
)

func TestSetAndReadAuthCookies(t *testing.T) {
	cfg := config.JWTConfig{
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}

	rec := httptest.NewRecorder()
	SetAuthCookies(rec, cfg, "access-token", "refresh-token")

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	for _, c := range cookies {
		req.AddCookie(c)
		if !c.HttpOnly {
			t.Fatalf("cookie %s must be http-only", c.Name)
		}
	}

	if got := ReadAccessToken(req); got != "access-token" {
		t.Fatalf("expected access-token got %q", got)
	}
	if got := ReadRefreshToken(req); got != "refresh-token" {
		t.Fatalf("expected refresh-token got %q", got)
	}
}

func TestRefreshCookieScopedToAuthPath(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAuthCookies(rec, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60}, "a", "r")

	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case AccessTokenCookie:
			if c.Path != "/" {
				t.Fatalf("access cookie path %q, want /", c.Path)
			}
		case RefreshTokenCookie:
			if c.Path != "/api/v1/auth" {
				t.Fatalf("refresh cookie path %q, want /api/v1/auth", c.Path)
			}
			if c.SameSite != http.SameSiteStrictMode {
				t.Fatal("refresh cookie must be SameSite=Strict")
			}
		}
	}
}

func TestClearAuthCookiesExpiresBoth(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearAuthCookies(rec, config.JWTConfig{})

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" || c.MaxAge != -1 {
			t.Fatalf("cookie %s not expired", c.Name)
		}
	}
}

func TestReadTokensAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ReadAccessToken(req); got != "" {
		t.Fatalf("expected empty access token got %q", got)
	}
	if got := ReadRefreshToken(req); got != "" {
		t.Fatalf("expected empty refresh token got %q", got)
	}
}
