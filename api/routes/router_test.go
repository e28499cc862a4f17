package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shaheen-amjed/shodix-api/internal/auth"
	"github.com/shaheen-amjed/shodix-api/internal/cart"
	"github.com/shaheen-amjed/shodix-api/internal/conversations"
	"github.com/shaheen-amjed/shodix-api/internal/follows"
	"github.com/shaheen-amjed/shodix-api/internal/orders"
	"github.com/shaheen-amjed/shodix-api/internal/products"
	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/db/dbtest"
	"github.com/shaheen-amjed/shodix-api/pkg/db/models"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
	"github.com/shaheen-amjed/shodix-api/pkg/security"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *gorm.DB
	count   func(model any) int64
}

func newTestServer(t *testing.T, opts ...func(*Params)) *testServer {
	t.Helper()
	client := dbtest.New(t)
	gdb := client.DB()

	cfg := &config.Config{
		App:   config.AppConfig{Env: "test"},
		JWT:   config.JWTConfig{Secret: "router-secret", Issuer: "shodix", ExpirationMinutes: 60, CookieName: "jwt"},
		Media: config.MediaConfig{UploadDir: t.TempDir(), PublicPrefix: "/uploads", MaxUploadMB: 1},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	hasher := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	local, err := storage.NewLocal(cfg.Media, nil)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	events := metrics.NewDomainMetrics(registry)

	userRepo := users.NewRepository(gdb)
	storeRepo := stores.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)

	resolver, err := auth.NewResolver(userRepo, storeRepo)
	require.NoError(t, err)
	registerSvc, err := auth.NewRegisterService(auth.RegisterServiceParams{UserRepo: userRepo, StoreRepo: storeRepo, Hasher: hasher, Storage: local, Metrics: events})
	require.NoError(t, err)
	authSvc, err := auth.NewService(auth.ServiceParams{UserRepo: userRepo, StoreRepo: storeRepo, Hasher: hasher, JWTConfig: cfg.JWT, Metrics: events})
	require.NoError(t, err)
	userSvc, err := users.NewService(users.ServiceParams{Repo: userRepo, Hasher: hasher})
	require.NoError(t, err)
	storeSvc, err := stores.NewService(stores.ServiceParams{Repo: storeRepo, Hasher: hasher, Storage: local})
	require.NoError(t, err)
	productSvc, err := products.NewService(products.ServiceParams{Repo: productRepo, Storage: local})
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.ServiceParams{Repo: cartRepo, Products: productRepo})
	require.NoError(t, err)
	orderSvc, err := orders.NewService(orders.ServiceParams{DB: client, OrderRepo: orderRepo, CartRepo: cartRepo, Metrics: events})
	require.NoError(t, err)
	followSvc, err := follows.NewService(follows.ServiceParams{Repo: follows.NewRepository(gdb), StoreRepo: storeRepo, Metrics: events})
	require.NoError(t, err)
	convSvc, err := conversations.NewService(conversations.ServiceParams{Repo: conversations.NewRepository(gdb), UserRepo: userRepo, StoreRepo: storeRepo, Metrics: events})
	require.NoError(t, err)

	params := Params{
		Config:        cfg,
		DB:            client,
		Gatherer:      registry,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Uploads:       local.Handler(),
		Resolver:      resolver,
		Auth:          authSvc,
		Register:      registerSvc,
		Users:         userSvc,
		Stores:        storeSvc,
		Products:      productSvc,
		Cart:          cartSvc,
		Orders:        orderSvc,
		Conversations: convSvc,
		Follows:       followSvc,
	}
	for _, opt := range opts {
		opt(&params)
	}

	return &testServer{
		t:       t,
		handler: NewRouter(params),
		db:      gdb,
		count: func(model any) int64 {
			var n int64
			require.NoError(t, gdb.Model(model).Count(&n).Error)
			return n
		},
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	return envelope.Data
}

func (s *testServer) registerUser(name string) {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/user/register", "", map[string]string{"username": name, "password": "pw-" + name, "full_location": "Cairo"})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.Body.String())
}

func (s *testServer) registerStore(name string) {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/store/register", "", map[string]string{"store_name": name, "password": "pw-" + name, "full_location": "Giza"})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.Body.String())
}

func (s *testServer) loginUser(name string) auth.LoginResponse {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/user/login", "", map[string]string{"username": name, "password": "pw-" + name})
	require.Equal(s.t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeData[auth.LoginResponse](s.t, resp)
}

func (s *testServer) loginStore(name string) auth.LoginResponse {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/store/login", "", map[string]string{"store_name": name, "password": "pw-" + name})
	require.Equal(s.t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeData[auth.LoginResponse](s.t, resp)
}

func (s *testServer) createProduct(token string) models.Product {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/product", token, map[string]any{"name": "Bread", "price": "2.50", "stock": 10})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeData[models.Product](s.t, resp)
}

func TestRegistrationNamespaces(t *testing.T) {
	s := newTestServer(t)

	first := s.do(http.MethodPost, "/user/register", "", map[string]string{"username": "mike_01", "password": "pw", "full_location": "Cairo"})
	assert.Equal(t, http.StatusCreated, first.Code)

	store := s.do(http.MethodPost, "/store/register", "", map[string]string{"store_name": "MikeShop", "password": "pw", "full_location": "Cairo"})
	assert.Equal(t, http.StatusCreated, store.Code)

	again := s.do(http.MethodPost, "/user/register", "", map[string]string{"username": "mike_01", "password": "other", "full_location": "Alex"})
	assert.Equal(t, http.StatusConflict, again.Code)

	bad := s.do(http.MethodPost, "/user/register", "", map[string]string{"username": "mike@01", "password": "pw", "full_location": "Cairo"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLoginCarriers(t *testing.T) {
	s := newTestServer(t)
	s.registerUser("amina")

	resp := s.do(http.MethodPost, "/user/login", "", map[string]string{"username": "amina", "password": "pw-amina"})
	require.Equal(t, http.StatusOK, resp.Code)
	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == "jwt" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Contains(t, me.Body.String(), `"username":"amina"`)

	body := `{"jwt":"` + cookie.Value + `"}`
	req = httptest.NewRequest(http.MethodGet, "/cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	viaBody := httptest.NewRecorder()
	s.handler.ServeHTTP(viaBody, req)
	assert.Equal(t, http.StatusOK, viaBody.Code, viaBody.Body.String())

	wrong := s.do(http.MethodPost, "/user/login", "", map[string]string{"username": "amina", "password": "nope"})
	unknown := s.do(http.MethodPost, "/user/login", "", map[string]string{"username": "nobody", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/me", "", nil).Code)
}

func TestCartOwnership(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("BakeShop")
	s.registerUser("alice")
	s.registerUser("bob")
	storeToken := s.loginStore("BakeShop").Token
	alice := s.loginUser("alice").Token
	bob := s.loginUser("bob").Token

	product := s.createProduct(storeToken)

	added := s.do(http.MethodPost, "/cart", alice, map[string]any{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, added.Code, added.Body.String())
	item := decodeData[models.CartItem](t, added)

	denied := s.do(http.MethodDelete, "/cart", bob, map[string]any{"cart_id": item.ID})
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.EqualValues(t, 1, s.count(&models.CartItem{}))

	storeDenied := s.do(http.MethodDelete, "/cart", storeToken, map[string]any{"cart_id": item.ID})
	assert.Equal(t, http.StatusForbidden, storeDenied.Code)

	removed := s.do(http.MethodDelete, "/cart", alice, map[string]any{"cart_id": item.ID})
	assert.Equal(t, http.StatusOK, removed.Code)
	assert.EqualValues(t, 0, s.count(&models.CartItem{}))

	empty := s.do(http.MethodGet, "/cart", alice, nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"data":[]}`, empty.Body.String())
}

func TestProductOwnership(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("OwnerShop")
	s.registerStore("RivalShop")
	owner := s.loginStore("OwnerShop").Token
	rival := s.loginStore("RivalShop").Token

	product := s.createProduct(owner)

	denied := s.do(http.MethodPatch, "/product", rival, map[string]any{"product_id": product.ID, "name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, denied.Code)

	got := s.do(http.MethodGet, "/product/"+product.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "Bread", decodeData[models.Product](t, got).Name)

	renamed := s.do(http.MethodPatch, "/product", owner, map[string]any{"product_id": product.ID, "name": "Rye"})
	require.Equal(t, http.StatusOK, renamed.Code, renamed.Body.String())
	assert.Equal(t, "Rye", decodeData[models.Product](t, renamed).Name)

	list := s.do(http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	page := decodeData[products.ListResult](t, list)
	assert.Len(t, page.Products, 1)
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("BakeShop")
	s.registerUser("alice")
	storeToken := s.loginStore("BakeShop").Token
	alice := s.loginUser("alice").Token

	product := s.createProduct(storeToken)
	added := s.do(http.MethodPost, "/cart", alice, map[string]any{"product_id": product.ID, "quantity": 3, "country": "EG", "full_location": "Cairo"})
	require.Equal(t, http.StatusCreated, added.Code)
	item := decodeData[models.CartItem](t, added)

	placed := s.do(http.MethodPost, "/order", alice, map[string]any{"cart_id": item.ID})
	require.Equal(t, http.StatusCreated, placed.Code, placed.Body.String())
	order := decodeData[orders.OrderDTO](t, placed)
	assert.Equal(t, "7.5", order.Total.String())
	assert.EqualValues(t, 0, s.count(&models.CartItem{}))

	storeOrders := s.do(http.MethodGet, "/order/store", storeToken, nil)
	require.Equal(t, http.StatusOK, storeOrders.Code)
	assert.Len(t, decodeData[[]orders.OrderDTO](t, storeOrders), 1)

	userOnStoreRoute := s.do(http.MethodGet, "/order/store", alice, nil)
	assert.Equal(t, http.StatusForbidden, userOnStoreRoute.Code)

	done := s.do(http.MethodPost, "/order/complete", storeToken, map[string]any{"order_id": order.ID})
	require.Equal(t, http.StatusOK, done.Code, done.Body.String())

	again := s.do(http.MethodPost, "/order/complete", storeToken, map[string]any{"order_id": order.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, again.Code)
}

func TestConversationAccess(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("ChatShop")
	s.registerUser("buyer")
	s.registerUser("intruder")
	storeToken := s.loginStore("ChatShop").Token
	buyer := s.loginUser("buyer").Token
	intruder := s.loginUser("intruder").Token

	empty := s.do(http.MethodGet, "/conversation/ChatShop/buyer", buyer, nil)
	require.Equal(t, http.StatusOK, empty.Code, empty.Body.String())
	assert.JSONEq(t, `{"data":[]}`, empty.Body.String())

	sent := s.do(http.MethodPost, "/conversation/ChatShop/buyer", buyer, map[string]string{"msg": "is the bread fresh?"})
	require.Equal(t, http.StatusCreated, sent.Code, sent.Body.String())
	reply := s.do(http.MethodPost, "/conversation/ChatShop/buyer", storeToken, map[string]string{"msg": "baked this morning"})
	require.Equal(t, http.StatusCreated, reply.Code)

	msgs := decodeData[[]conversations.MessageDTO](t, s.do(http.MethodGet, "/conversation/ChatShop/buyer", storeToken, nil))
	require.Len(t, msgs, 2)
	assert.Equal(t, "is the bread fresh?", msgs[0].Msg)
	assert.Equal(t, "baked this morning", msgs[1].Msg)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/conversation/ChatShop/buyer", intruder, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/conversation/ChatShop/buyer", intruder, map[string]string{"msg": "hi"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/conversation/ChatShop/intruder", buyer, nil).Code)
	assert.EqualValues(t, 1, s.count(&models.Conversation{}))

	inbox := decodeData[[]conversations.InboxEntry](t, s.do(http.MethodGet, "/inbox", storeToken, nil))
	require.Len(t, inbox, 1)
	assert.Equal(t, "buyer", inbox[0].Username)
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("FollowShop")
	s.registerUser("fan")
	fan := s.loginUser("fan")
	store := s.loginStore("FollowShop")
	storeID := store.Store.ID

	first := s.do(http.MethodPost, "/follow", fan.Token, map[string]any{"store_id": storeID})
	assert.Equal(t, http.StatusCreated, first.Code)
	second := s.do(http.MethodPost, "/follow", fan.Token, map[string]any{"store_id": storeID})
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "already following")

	count := s.do(http.MethodGet, "/follow?store_id="+storeID.String(), "", nil)
	require.Equal(t, http.StatusOK, count.Code)
	assert.Contains(t, count.Body.String(), `"followers_count":1`)

	profile := s.do(http.MethodGet, "/store/FollowShop", "", nil)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.EqualValues(t, 1, decodeData[stores.ProfileDTO](t, profile).Followers)

	storeFollow := s.do(http.MethodPost, "/follow", store.Token, map[string]any{"store_id": storeID})
	assert.Equal(t, http.StatusForbidden, storeFollow.Code)

	missing := s.do(http.MethodPost, "/follow", fan.Token, map[string]any{"store_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestIsOwner(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("MyShop")
	s.registerUser("visitor")
	owner := s.loginStore("MyShop").Token
	visitor := s.loginUser("visitor").Token

	assert.Contains(t, s.do(http.MethodGet, "/store/MyShop/is-owner", owner, nil).Body.String(), `"owner":true`)
	assert.Contains(t, s.do(http.MethodGet, "/store/MyShop/is-owner", visitor, nil).Body.String(), `"owner":false`)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/store/NoShop/is-owner", owner, nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/ready", "", nil).Code)

	resp := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "/health/live")
}
