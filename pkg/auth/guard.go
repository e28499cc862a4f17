package auth

import (
	"github.com/google/uuid"

	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// RequireOwner allows a mutation only when the principal's id equals the owner id
// read from resource. The comparison is by identifier, never by display name.
func RequireOwner[T any](principal Principal, resource T, ownerOf func(T) uuid.UUID, what string) error {
	if principal.ID == uuid.Nil || ownerOf(resource) != principal.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, what+" does not belong to caller")
	}
	return nil
}
