package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheen-amjed/shodix-api/internal/cart"
	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/db/dbtest"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

type fixture struct {
	svc      Service
	cartRepo *cart.Repository
	item     *models.CartItem
	buyer    auth.Principal
	intruder auth.Principal
	seller   auth.Principal
	rival    auth.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)
	ctx := context.Background()
	gdb := client.DB().WithContext(ctx)

	buyer := &models.User{Username: "buyer", PasswordHash: "x"}
	intruder := &models.User{Username: "intruder", PasswordHash: "x"}
	seller := &models.Store{StoreName: "Seller", PasswordHash: "x"}
	rival := &models.Store{StoreName: "Rival", PasswordHash: "x"}
	for _, row := range []any{buyer, intruder, seller, rival} {
		require.NoError(t, gdb.Create(row).Error)
	}
	product := &models.Product{StoreID: seller.ID, Name: "Olive oil", Price: decimal.RequireFromString("7.5"), Stock: 4}
	require.NoError(t, gdb.Create(product).Error)

	cartRepo := cart.NewRepository(client.DB())
	item := &models.CartItem{
		UserID:       buyer.ID,
		ProductID:    product.ID,
		StoreID:      seller.ID,
		ProductName:  product.Name,
		Quantity:     2,
		UnitPrice:    product.Price,
		Country:      "DZ",
		FullLocation: "Tlemcen",
	}
	require.NoError(t, cartRepo.Create(ctx, item))

	svc, err := NewService(ServiceParams{
		DB:        client,
		OrderRepo: NewRepository(client.DB()),
		CartRepo:  cartRepo,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return fixture{
		svc:      svc,
		cartRepo: cartRepo,
		item:     item,
		buyer:    auth.Principal{Kind: enums.PrincipalUser, ID: buyer.ID},
		intruder: auth.Principal{Kind: enums.PrincipalUser, ID: intruder.ID},
		seller:   auth.Principal{Kind: enums.PrincipalStore, ID: seller.ID},
		rival:    auth.Principal{Kind: enums.PrincipalStore, ID: rival.ID},
	}
}

func TestPlaceOrderMovesCartLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Place(ctx, f.buyer, PlaceOrderInput{CartID: f.item.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, order.Status)
	assert.Equal(t, f.seller.ID, order.StoreID)
	assert.True(t, decimal.RequireFromString("15").Equal(order.Total))
	assert.Equal(t, "Tlemcen", order.FullLocation)

	_, err = f.cartRepo.FindByID(ctx, f.item.ID)
	require.Error(t, err, "cart line must be removed")

	mine, err := f.svc.ListForUser(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	incoming, err := f.svc.ListForStore(ctx, f.seller)
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	none, err := f.svc.ListForStore(ctx, f.rival)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlaceOrderOverridesLocation(t *testing.T) {
	f := newFixture(t)
	loc := "Annaba"

	order, err := f.svc.Place(context.Background(), f.buyer, PlaceOrderInput{CartID: f.item.ID, FullLocation: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Annaba", order.FullLocation)
	assert.Equal(t, "DZ", order.Country)
}

func TestPlaceOrderRequiresCartOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, f.intruder, PlaceOrderInput{CartID: f.item.ID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	_, err = f.cartRepo.FindByID(ctx, f.item.ID)
	require.NoError(t, err, "cart line must survive")

	_, err = f.svc.Place(ctx, f.buyer, PlaceOrderInput{CartID: uuid.New()})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestCompleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Place(ctx, f.buyer, PlaceOrderInput{CartID: f.item.ID})
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, f.rival, order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	done, err := f.svc.Complete(ctx, f.seller, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	_, err = f.svc.Complete(ctx, f.seller, order.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.Complete(ctx, f.seller, uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestListKindChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListForUser(ctx, f.seller)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
	_, err = f.svc.ListForStore(ctx, f.buyer)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
}
