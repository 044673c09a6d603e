package auth

import (
	"net/http"
	"time"

	"github.com/dmarquez/autoglass-backend/pkg/config"
)

// Cookie names for the access/refresh pair. Both are HTTP-only so the
// frontend never touches token material.
const (
	AccessTokenCookie  = "ag_access_token"
	RefreshTokenCookie = "ag_refresh_token"
)

// SetAuthCookies writes the access/refresh pair. The refresh cookie is scoped
// to the refresh endpoint only.
func SetAuthCookies(w http.ResponseWriter, cfg config.JWTConfig, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.AccessTokenTTL() / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/api/v1/auth",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.RefreshTokenTTL() / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAuthCookies expires both cookies.
func ClearAuthCookies(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/api/v1/auth",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadAccessToken pulls the access token cookie, empty when absent.
func ReadAccessToken(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ReadRefreshToken pulls the refresh token cookie, empty when absent.
func ReadRefreshToken(r *http.Request) string {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
