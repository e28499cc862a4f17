package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shaheen-amjed/shodix-api/api/responses"
	pkgAuth "github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

const (
	bodyTokenField  = "jwt"
	maxTokenBodyLen = 1 << 20
)

// Auth validates the access token and seeds the request context with the principal.
// The token is read from the Authorization header, then the session cookie, then
// a "jwt" field of a JSON body. A body token is removed before the handler runs.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "jwt"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r, cookieName)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			switch {
			case errors.Is(err, pkgAuth.ErrNoPrincipal):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "token carries no principal"))
				return
			case err != nil:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			principal := claims.Principal()
			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, string(principal.Kind), principal.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request, cookieName string) (string, error) {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token != "" {
			return token, nil
		}
	}

	if cookie, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value), nil
	}

	return tokenFromBody(r)
}

// tokenFromBody pulls the token out of a JSON object body and rewrites the body
// without it.
func tokenFromBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return "", nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodyLen+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	if len(raw) > maxTokenBodyLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
	}
	restore := func(b []byte) {
		r.Body = io.NopCloser(bytes.NewReader(b))
		r.ContentLength = int64(len(b))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		restore(raw)
		return "", nil
	}
	value, ok := fields[bodyTokenField]
	if !ok {
		restore(raw)
		return "", nil
	}
	var token string
	if err := json.Unmarshal(value, &token); err != nil {
		restore(raw)
		return "", nil
	}

	delete(fields, bodyTokenField)
	stripped, err := json.Marshal(fields)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewrite request body")
	}
	restore(stripped)
	return strings.TrimSpace(token), nil
}
