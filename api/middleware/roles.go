package middleware

import (
	"net/http"

	"github.com/shaheen-amjed/shodix-api/api/responses"
	internalAuth "github.com/shaheen-amjed/shodix-api/internal/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

// RequireUser admits only user principals whose row still exists.
func RequireUser(resolver internalAuth.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(resolver, logg, enums.PrincipalUser)
}

// RequireStore admits only store principals whose row still exists.
func RequireStore(resolver internalAuth.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(resolver, logg, enums.PrincipalStore)
}

// RequirePrincipal admits any principal whose row still exists.
func RequirePrincipal(resolver internalAuth.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(resolver, logg, "")
}

func requireKind(resolver internalAuth.Resolver, logg *logger.Logger, want enums.PrincipalKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal, ok := PrincipalFromContext(ctx)
			if !ok || !principal.Kind.IsValid() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "principal required"))
				return
			}
			if want != "" && principal.Kind != want {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, string(want)+" role required"))
				return
			}

			switch principal.Kind {
			case enums.PrincipalUser:
				user, err := resolver.ResolveUser(ctx, principal.ID)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				ctx = WithUser(ctx, user)
			case enums.PrincipalStore:
				store, err := resolver.ResolveStore(ctx, principal.ID)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				ctx = WithStore(ctx, store)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
