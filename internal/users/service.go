package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/displayname"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// Service covers user profile reads and self-service updates.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type service struct {
	repo   userRepository
	hasher passwordHasher
}

// ServiceParams bundles the dependencies of the users service.
type ServiceParams struct {
	Repo   userRepository
	Hasher passwordHasher
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("user repository is required")
	}
	if params.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	return &service{repo: params.Repo, hasher: params.Hasher}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error) {
	changes := map[string]any{}

	if req.Username != nil {
		if err := displayname.Validate("username", *req.Username); err != nil {
			return nil, err
		}
		taken, err := s.repo.UsernameTaken(ctx, *req.Username, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
		}
		changes["username"] = *req.Username
	}
	// a blank password leaves the current one in place
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		changes["password_hash"] = hash
	}
	if req.FullLocation != nil {
		changes["full_location"] = *req.FullLocation
	}

	if len(changes) > 0 {
		if err := s.repo.Update(ctx, id, changes); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
