package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/enums"
)

// Principal is the acting identity: exactly one user or one store.
type Principal struct {
	Kind enums.PrincipalKind
	ID   uuid.UUID
}

func (p Principal) IsUser() bool  { return p.Kind == enums.PrincipalUser }
func (p Principal) IsStore() bool { return p.Kind == enums.PrincipalStore }

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Kind         enums.PrincipalKind
	PrincipalID  uuid.UUID
	DisplayName  string
	FullLocation string
}

// AccessTokenClaims represents the typed JWT issued to clients. The principal id
// is also the registered subject.
type AccessTokenClaims struct {
	Kind         enums.PrincipalKind `json:"kind"`
	PrincipalID  uuid.UUID           `json:"pid"`
	DisplayName  string              `json:"name"`
	FullLocation string              `json:"full_location,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the identity asserted by the claims.
func (c *AccessTokenClaims) Principal() Principal {
	return Principal{Kind: c.Kind, ID: c.PrincipalID}
}
