package auth

import (
	"time"

	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// RegisterUserRequest is the buyer sign-up payload.
type RegisterUserRequest struct {
	Username     string `json:"username" validate:"required,displayname"`
	Password     string `json:"password" validate:"required,max=128"`
	FullLocation string `json:"full_location" validate:"required,max=255"`
}

// RegisterStoreRequest is the seller sign-up payload. Image is optional.
type RegisterStoreRequest struct {
	StoreName    string          `json:"store_name" form:"store_name" validate:"required,displayname"`
	Password     string          `json:"password" form:"password" validate:"required,max=128"`
	FullLocation string          `json:"full_location" form:"full_location" validate:"required,max=255"`
	Bio          string          `json:"bio" form:"bio" validate:"max=2000"`
	Image        *storage.Upload `json:"-" form:"-"`
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type StoreLoginRequest struct {
	StoreName string `json:"store_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token and the authenticated profile.
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Kind      enums.PrincipalKind `json:"kind"`
	User      *users.UserDTO      `json:"user,omitempty"`
	Store     *stores.StoreDTO    `json:"store,omitempty"`
}
