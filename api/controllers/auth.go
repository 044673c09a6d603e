package controllers

import (
	"net/http"

	"github.com/dmarquez/autoglass-backend/api/responses"
	"github.com/dmarquez/autoglass-backend/api/validators"
	"github.com/dmarquez/autoglass-backend/internal/auth"
	pkgauth "github.com/dmarquez/autoglass-backend/pkg/auth"
	"github.com/dmarquez/autoglass-backend/pkg/config"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

// AuthLogin verifies credentials and plants the auth cookie pair.
func AuthLogin(svc *auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tokens, user, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.SetAuthCookies(w, jwtCfg, tokens.AccessToken, tokens.RefreshToken)
		responses.WriteSuccess(w, "login successful", user)
	}
}

// AuthRefresh rotates the session behind the refresh cookie and reissues both
// cookies. The expired access token is still required to name the session.
func AuthRefresh(svc *auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken := pkgauth.ReadAccessToken(r)
		refreshToken := pkgauth.ReadRefreshToken(r)
		if accessToken == "" || refreshToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session cookies"))
			return
		}

		tokens, err := svc.Refresh(r.Context(), accessToken, refreshToken)
		if err != nil {
			pkgauth.ClearAuthCookies(w, jwtCfg)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.SetAuthCookies(w, jwtCfg, tokens.AccessToken, tokens.RefreshToken)
		responses.WriteSuccess(w, "session refreshed", nil)
	}
}

// AuthLogout revokes the session and clears both cookies. Always succeeds
// from the client's point of view.
func AuthLogout(svc *auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accessToken := pkgauth.ReadAccessToken(r); accessToken != "" {
			if err := svc.Logout(r.Context(), accessToken); err != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "auth.logout.revoke_failed")
			}
		}

		pkgauth.ClearAuthCookies(w, jwtCfg)
		responses.WriteSuccess(w, "logged out", nil)
	}
}

// AuthRegister provisions a staff account. The route is admin-gated.
func AuthRegister(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "user registered", user)
	}
}
