package follows

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
)

const defaultCountTTL = 5 * time.Minute

// Service manages follow edges and follower counts.
type Service interface {
	Follow(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*FollowResult, error)
	Unfollow(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*FollowResult, error)
	Count(ctx context.Context, storeID uuid.UUID) (*CountResult, error)
	Status(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*StatusResult, error)
}

type followRepository interface {
	Insert(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, storeID uuid.UUID) (bool, error)
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// CountCache caches follower counts. The redis client satisfies it.
type CountCache interface {
	FollowerCountKey(storeID string) string
	GetCount(ctx context.Context, key string) (int64, bool, error)
	SetCount(ctx context.Context, key string, n int64, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type ServiceParams struct {
	Repo      followRepository
	StoreRepo storeFinder
	Cache     CountCache
	CacheTTL  time.Duration
	Metrics   metrics.EventRecorder
	Logger    *logger.Logger
}

type service struct {
	repo     followRepository
	stores   storeFinder
	cache    CountCache
	cacheTTL time.Duration
	metrics  metrics.EventRecorder
	logg     *logger.Logger
}

// NewService builds the follow service. Cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("follow repository is required")
	}
	if params.StoreRepo == nil {
		return nil, errors.New("store repository is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = defaultCountTTL
	}
	recorder := params.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &service{
		repo:     params.Repo,
		stores:   params.StoreRepo,
		cache:    params.Cache,
		cacheTTL: ttl,
		metrics:  recorder,
		logg:     params.Logger,
	}, nil
}

func (s *service) Follow(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*FollowResult, error) {
	if err := s.checkUser(principal); err != nil {
		return nil, err
	}
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}
	created, err := s.repo.Insert(ctx, principal.ID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "follow store")
	}

	result := &FollowResult{StoreID: storeID, Following: true, Changed: created, Message: "already following"}
	if created {
		result.Message = "followed"
		s.metrics.Record(metrics.EventStoreFollowed)
		s.invalidate(ctx, storeID)
	}
	return result, nil
}

func (s *service) Unfollow(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*FollowResult, error) {
	if err := s.checkUser(principal); err != nil {
		return nil, err
	}
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}
	removed, err := s.repo.Remove(ctx, principal.ID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unfollow store")
	}

	result := &FollowResult{StoreID: storeID, Following: false, Changed: removed, Message: "not following"}
	if removed {
		result.Message = "unfollowed"
		s.invalidate(ctx, storeID)
	}
	return result, nil
}

// Count returns the follower count, served from the cache when one is configured.
func (s *service) Count(ctx context.Context, storeID uuid.UUID) (*CountResult, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := s.cache.FollowerCountKey(storeID.String())
		n, ok, err := s.cache.GetCount(ctx, key)
		if err == nil && ok {
			return &CountResult{StoreID: storeID, FollowersCount: n}, nil
		}
		if err != nil {
			s.warn(ctx, "follows.cache_read_failed", storeID)
		}
	}

	n, err := s.repo.CountByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count followers")
	}
	if s.cache != nil {
		if err := s.cache.SetCount(ctx, s.cache.FollowerCountKey(storeID.String()), n, s.cacheTTL); err != nil {
			s.warn(ctx, "follows.cache_write_failed", storeID)
		}
	}
	return &CountResult{StoreID: storeID, FollowersCount: n}, nil
}

func (s *service) Status(ctx context.Context, principal auth.Principal, storeID uuid.UUID) (*StatusResult, error) {
	if err := s.checkUser(principal); err != nil {
		return nil, err
	}
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id is required")
	}
	ok, err := s.repo.Exists(ctx, principal.ID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check follow")
	}
	return &StatusResult{StoreID: storeID, Following: ok}, nil
}

func (s *service) checkUser(principal auth.Principal) error {
	if !principal.IsUser() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only users can follow stores")
	}
	return nil
}

func (s *service) ensureStore(ctx context.Context, storeID uuid.UUID) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store_id is required")
	}
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, storeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.FollowerCountKey(storeID.String())); err != nil {
		s.warn(ctx, "follows.cache_invalidate_failed", storeID)
	}
}

func (s *service) warn(ctx context.Context, msg string, storeID uuid.UUID) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "store_id", storeID.String()), msg)
}
