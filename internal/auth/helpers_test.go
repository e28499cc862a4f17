package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/db/dbtest"
	"github.com/shaheen-amjed/shodix-api/pkg/security"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "shodix",
	ExpirationMinutes: 60,
}

type harness struct {
	register  RegisterService
	login     Service
	resolver  Resolver
	userRepo  *users.Repository
	storeRepo *stores.Repository
}

func newHarness(t *testing.T) harness {
	t.Helper()
	client := dbtest.New(t)
	userRepo := users.NewRepository(client.DB())
	storeRepo := stores.NewRepository(client.DB())
	hasher := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	local, err := storage.NewLocal(config.MediaConfig{UploadDir: t.TempDir(), PublicPrefix: "/uploads"}, nil)
	require.NoError(t, err)

	register, err := NewRegisterService(RegisterServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Hasher:    hasher,
		Storage:   local,
	})
	require.NoError(t, err)

	login, err := NewService(ServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Hasher:    hasher,
		JWTConfig: testJWT,
	})
	require.NoError(t, err)

	resolver, err := NewResolver(userRepo, storeRepo)
	require.NoError(t, err)

	return harness{register: register, login: login, resolver: resolver, userRepo: userRepo, storeRepo: storeRepo}
}
