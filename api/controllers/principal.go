package controllers

import (
	"net/http"

	"github.com/shaheen-amjed/shodix-api/api/middleware"
	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

func principalFrom(r *http.Request) (auth.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return auth.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return principal, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
