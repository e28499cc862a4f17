package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/displayname"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// RegisterService onboards new users and stores.
type RegisterService interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*users.UserDTO, error)
	RegisterStore(ctx context.Context, req RegisterStoreRequest) (*stores.StoreDTO, error)
}

type imageSaver interface {
	Save(ctx context.Context, folder string, upload storage.Upload) (string, error)
	Delete(ctx context.Context, publicPath string) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	UserRepo  *users.Repository
	StoreRepo *stores.Repository
	Hasher    passwordHasher
	Storage   imageSaver
	Metrics   metrics.EventRecorder
}

type registerService struct {
	users   *users.Repository
	stores  *stores.Repository
	hasher  passwordHasher
	storage imageSaver
	metrics metrics.EventRecorder
}

func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, errors.New("store repository is required")
	}
	if params.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if params.Storage == nil {
		return nil, errors.New("image storage is required")
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &registerService{
		users:   params.UserRepo,
		stores:  params.StoreRepo,
		hasher:  params.Hasher,
		storage: params.Storage,
		metrics: recorder,
	}, nil
}

func (s *registerService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*users.UserDTO, error) {
	if err := displayname.Validate("username", req.Username); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullLocation: req.FullLocation,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.metrics.Record(metrics.EventUserRegistered)
	return users.FromModel(user), nil
}

func (s *registerService) RegisterStore(ctx context.Context, req RegisterStoreRequest) (*stores.StoreDTO, error) {
	if err := displayname.Validate("store_name", req.StoreName); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	taken, err := s.stores.NameTaken(ctx, req.StoreName, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check store name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store name already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	store := &models.Store{
		StoreName:    req.StoreName,
		PasswordHash: hash,
		FullLocation: req.FullLocation,
		Bio:          req.Bio,
	}
	if req.Image != nil {
		img, err := s.storage.Save(ctx, storage.FolderStores, *req.Image)
		if err != nil {
			return nil, err
		}
		store.Img = &img
	}

	if err := s.stores.Create(ctx, store); err != nil {
		if store.Img != nil {
			_ = s.storage.Delete(ctx, *store.Img)
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "store name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
	}

	s.metrics.Record(metrics.EventStoreRegistered)
	return stores.FromModel(store), nil
}
