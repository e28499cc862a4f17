package controllers

import (
	"net/http"
	"time"

	"github.com/shaheen-amjed/shodix-api/api/middleware"
	"github.com/shaheen-amjed/shodix-api/api/responses"
	"github.com/shaheen-amjed/shodix-api/api/validators"
	"github.com/shaheen-amjed/shodix-api/internal/auth"
	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

const storeImageField = "store_img"

// UserRegister creates a buyer account.
func UserRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.RegisterUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := reg.RegisterUser(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, user)
	}
}

// StoreRegister creates a seller account from JSON or a multipart form with an
// optional store_img part.
func StoreRegister(reg auth.RegisterService, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.RegisterStoreRequest
		closeFile := func() {}
		if validators.IsMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			body = auth.RegisterStoreRequest{
				StoreName:    validators.FormValue(r, "store_name"),
				Password:     validators.FormValue(r, "password"),
				FullLocation: validators.FormValue(r, "full_location"),
				Bio:          validators.FormValue(r, "bio"),
			}
			if err := validators.ValidateStruct(&body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			upload, closer, err := validators.FormFile(r, storeImageField)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			body.Image, closeFile = upload, closer
		} else if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		store, err := reg.RegisterStore(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, store)
	}
}

// UserLogin exchanges buyer credentials for a token, returned in the body and
// as the session cookie.
func UserLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.UserLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.LoginUser(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cfg, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// StoreLogin is UserLogin for store accounts.
func StoreLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.StoreLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.LoginStore(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cfg, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, result)
	}
}

// Logout expires the session cookie. Bearer tokens stay valid until they expire.
func Logout(cfg config.JWTConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName(cfg),
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, map[string]string{"msg": "logged out"})
	}
}

type meResponse struct {
	Kind  enums.PrincipalKind `json:"kind"`
	User  *users.UserDTO      `json:"user,omitempty"`
	Store *stores.StoreDTO    `json:"store,omitempty"`
}

// Me returns the live profile behind the token. It runs after RequirePrincipal.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user := middleware.UserFromContext(ctx); user != nil {
			responses.WriteSuccess(w, meResponse{Kind: enums.PrincipalUser, User: users.FromModel(user)})
			return
		}
		if store := middleware.StoreFromContext(ctx); store != nil {
			responses.WriteSuccess(w, meResponse{Kind: enums.PrincipalStore, Store: stores.FromModel(store)})
			return
		}
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "principal required"))
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(cfg),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieName(cfg config.JWTConfig) string {
	if cfg.CookieName == "" {
		return "jwt"
	}
	return cfg.CookieName
}
