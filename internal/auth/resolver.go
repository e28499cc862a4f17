package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// Resolver loads the live row behind a verified token.
type Resolver interface {
	ResolveUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ResolveStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type resolver struct {
	users  userLoader
	stores storeLoader
}

func NewResolver(userRepo userLoader, storeRepo storeLoader) (Resolver, error) {
	if userRepo == nil || storeRepo == nil {
		return nil, errors.New("user and store repositories are required")
	}
	return &resolver{users: userRepo, stores: storeRepo}, nil
}

func (r *resolver) ResolveUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve user")
	}
	return user, nil
}

func (r *resolver) ResolveStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := r.stores.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve store")
	}
	return store, nil
}
