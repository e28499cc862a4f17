package middleware

import (
	"context"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxUser      contextKey = "user"
	ctxStore     contextKey = "store"
)

// WithPrincipal stores the verified token identity.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the identity set by Auth.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	if ctx == nil {
		return auth.Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(auth.Principal)
	return p, ok
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the live user row attached by RequireUser or RequirePrincipal.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	u, _ := ctx.Value(ctxUser).(*models.User)
	return u
}

func WithStore(ctx context.Context, store *models.Store) context.Context {
	return context.WithValue(ctx, ctxStore, store)
}

// StoreFromContext returns the live store row attached by RequireStore or RequirePrincipal.
func StoreFromContext(ctx context.Context) *models.Store {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxStore).(*models.Store)
	return s
}
