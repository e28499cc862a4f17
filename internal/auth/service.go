package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	pkgAuth "github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
)

const invalidCredentialsMessage = "invalid credentials"

// Service authenticates credential pairs and issues tokens.
type Service interface {
	LoginUser(ctx context.Context, req UserLoginRequest) (*LoginResponse, error)
	LoginStore(ctx context.Context, req StoreLoginRequest) (*LoginResponse, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type passwordVerifier interface {
	passwordHasher
	Verify(password, encoded string) (bool, error)
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type storeFinder interface {
	FindByName(ctx context.Context, name string) (*models.Store, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo  userFinder
	StoreRepo storeFinder
	Hasher    passwordVerifier
	JWTConfig config.JWTConfig
	Metrics   metrics.EventRecorder
	Now       func() time.Time
}

type service struct {
	users   userFinder
	stores  storeFinder
	hasher  passwordVerifier
	jwtCfg  config.JWTConfig
	metrics metrics.EventRecorder
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if params.StoreRepo == nil {
		return nil, errors.New("store repository is required")
	}
	if params.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:   params.UserRepo,
		stores:  params.StoreRepo,
		hasher:  params.Hasher,
		jwtCfg:  params.JWTConfig,
		metrics: recorder,
		now:     now,
	}, nil
}

func (s *service) LoginUser(ctx context.Context, req UserLoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	var encoded string
	if user != nil {
		encoded = user.PasswordHash
	}
	if err := s.verify(req.Password, encoded, user != nil); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.mint(pkgAuth.AccessTokenPayload{
		Kind:         enums.PrincipalUser,
		PrincipalID:  user.ID,
		DisplayName:  user.Username,
		FullLocation: user.FullLocation,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Kind:      enums.PrincipalUser,
		User:      users.FromModel(user),
	}, nil
}

func (s *service) LoginStore(ctx context.Context, req StoreLoginRequest) (*LoginResponse, error) {
	store, err := s.stores.FindByName(ctx, req.StoreName)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup store")
	}

	var encoded string
	if store != nil {
		encoded = store.PasswordHash
	}
	if err := s.verify(req.Password, encoded, store != nil); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.mint(pkgAuth.AccessTokenPayload{
		Kind:         enums.PrincipalStore,
		PrincipalID:  store.ID,
		DisplayName:  store.StoreName,
		FullLocation: store.FullLocation,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Kind:      enums.PrincipalStore,
		Store:     stores.FromModel(store),
	}, nil
}

// verify checks password against encoded. Unknown principals are checked
// against a throwaway hash so both failures cost the same.
func (s *service) verify(password, encoded string, found bool) error {
	if !found {
		encoded = s.dummy()
	}
	ok, err := s.hasher.Verify(password, encoded)
	if err != nil || !ok || !found {
		s.metrics.Record(metrics.EventLoginFailed)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}

func (s *service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("shodix-login-placeholder")
	})
	return s.dummyHash
}

func (s *service) mint(payload pkgAuth.AccessTokenPayload) (string, time.Time, error) {
	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, expiresAt, nil
}
