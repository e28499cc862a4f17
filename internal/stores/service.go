package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/displayname"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// Service covers store profile reads and owner updates.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetByName(ctx context.Context, name string) (*StoreDTO, error)
	List(ctx context.Context) ([]StoreDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*StoreDTO, error)
	IsOwner(ctx context.Context, principal auth.Principal, storeName string) (bool, error)
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByName(ctx context.Context, name string) (*models.Store, error)
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]models.Store, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type imageStore interface {
	Replace(ctx context.Context, folder string, upload storage.Upload, oldPath *string, commit func(newPath string) error) (string, error)
}

type ServiceParams struct {
	Repo    storeRepository
	Hasher  passwordHasher
	Storage imageStore
}

type service struct {
	repo    storeRepository
	hasher  passwordHasher
	storage imageStore
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("store repository is required")
	}
	if params.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if params.Storage == nil {
		return nil, errors.New("image storage is required")
	}
	return &service{repo: params.Repo, hasher: params.Hasher, storage: params.Storage}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

func (s *service) GetByName(ctx context.Context, name string) (*StoreDTO, error) {
	store, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*StoreDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}

	changes := map[string]any{}
	if input.StoreName != nil && *input.StoreName != current.StoreName {
		if err := displayname.Validate("store_name", *input.StoreName); err != nil {
			return nil, err
		}
		taken, err := s.repo.NameTaken(ctx, *input.StoreName, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check store name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already exists")
		}
		changes["store_name"] = *input.StoreName
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		changes["password_hash"] = hash
	}
	if input.FullLocation != nil {
		changes["full_location"] = *input.FullLocation
	}
	if input.Bio != nil {
		changes["bio"] = *input.Bio
	}

	apply := func() error {
		if len(changes) == 0 {
			return nil
		}
		if err := s.repo.Update(ctx, id, changes); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "store name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update store")
		}
		return nil
	}

	if input.Image != nil {
		_, err := s.storage.Replace(ctx, storage.FolderStores, *input.Image, current.Img, func(newPath string) error {
			changes["img"] = newPath
			return apply()
		})
		if err != nil {
			return nil, err
		}
	} else if err := apply(); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// IsOwner reports whether principal is the store named storeName.
func (s *service) IsOwner(ctx context.Context, principal auth.Principal, storeName string) (bool, error) {
	store, err := s.repo.FindByName(ctx, storeName)
	if err != nil {
		return false, mapLoadError(err)
	}
	return principal.IsStore() && principal.ID == store.ID, nil
}

func mapLoadError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
}
