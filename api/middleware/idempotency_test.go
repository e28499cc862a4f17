package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheen-amjed/shodix-api/pkg/auth"
	"github.com/shaheen-amjed/shodix-api/pkg/enums"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	pkgredis "github.com/shaheen-amjed/shodix-api/pkg/redis"
)

type memoryReplayStore struct {
	records map[string]string
}

func newMemoryReplayStore() *memoryReplayStore {
	return &memoryReplayStore{records: map[string]string{}}
}

func (m *memoryReplayStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.records[key]; ok {
		return v, nil
	}
	return "", pkgredis.Nil
}

func (m *memoryReplayStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, taken := m.records[key]; taken {
		return false, nil
	}
	m.records[key], _ = value.(string)
	return true, nil
}

func (m *memoryReplayStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.records[key], _ = value.(string)
	return nil
}

func (m *memoryReplayStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.records, k)
	}
	return nil
}

func (m *memoryReplayStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

// routedRequest mimics what chi leaves on the context once a route matched.
func routedRequest(method, pattern, body, key string, p auth.Principal) *http.Request {
	req := httptest.NewRequest(method, pattern, io.NopCloser(strings.NewReader(body)))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{pattern}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(WithPrincipal(ctx, p))
}

func buyer() auth.Principal {
	return auth.Principal{Kind: enums.PrincipalUser, ID: uuid.New()}
}

// countingHandler answers with status and a small JSON body, counting calls.
func countingHandler(status int, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"n":1}`))
	})
}

func TestIsIdempotentRoute(t *testing.T) {
	assert.True(t, isIdempotentRoute(http.MethodPost, "/order"))
	assert.True(t, isIdempotentRoute(http.MethodPost, "/cart"))
	assert.False(t, isIdempotentRoute(http.MethodPatch, "/cart"))
	assert.False(t, isIdempotentRoute(http.MethodPost, "/user/login"))
	assert.False(t, isIdempotentRoute(http.MethodPost, "/conversation/{storeName}/{username}"))
}

func TestIdempotencyPassThrough(t *testing.T) {
	cases := []struct {
		name    string
		store   pkgredis.IdempotencyStore
		pattern string
		key     string
	}{
		{name: "no header", store: newMemoryReplayStore(), pattern: "/order"},
		{name: "no store", store: nil, pattern: "/order", key: "k1"},
		{name: "route not covered", store: newMemoryReplayStore(), pattern: "/product", key: "k1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			h := Idempotency(tc.store, time.Hour, nil)(countingHandler(http.StatusCreated, &calls))
			p := buyer()
			for i := 0; i < 2; i++ {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, routedRequest(http.MethodPost, tc.pattern, `{"cart_id":"c"}`, tc.key, p))
				assert.Equal(t, http.StatusCreated, rec.Code)
				assert.Empty(t, rec.Header().Get("Idempotent-Replayed"))
			}
			assert.Equal(t, 2, calls)
		})
	}
}

func TestIdempotencyReplay(t *testing.T) {
	store := newMemoryReplayStore()
	var calls int
	h := Idempotency(store, time.Hour, nil)(countingHandler(http.StatusCreated, &calls))
	p := buyer()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, routedRequest(http.MethodPost, "/order", `{"cart_id":"c"}`, "place-1", p))
	require.Equal(t, http.StatusCreated, first.Code)
	require.Len(t, store.records, 1)

	again := httptest.NewRecorder()
	h.ServeHTTP(again, routedRequest(http.MethodPost, "/order", `{"cart_id":"c"}`, "place-1", p))
	assert.Equal(t, http.StatusCreated, again.Code)
	assert.Equal(t, "true", again.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, "application/json", again.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, again.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyKeyIsPerPrincipal(t *testing.T) {
	store := newMemoryReplayStore()
	var calls int
	h := Idempotency(store, time.Hour, nil)(countingHandler(http.StatusCreated, &calls))

	h.ServeHTTP(httptest.NewRecorder(), routedRequest(http.MethodPost, "/cart", `{}`, "same", buyer()))
	h.ServeHTTP(httptest.NewRecorder(), routedRequest(http.MethodPost, "/cart", `{}`, "same", buyer()))

	assert.Equal(t, 2, calls)
	assert.Len(t, store.records, 2)
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newMemoryReplayStore()
	var calls int
	h := Idempotency(store, time.Hour, nil)(countingHandler(http.StatusInternalServerError, &calls))
	p := buyer()

	h.ServeHTTP(httptest.NewRecorder(), routedRequest(http.MethodPost, "/order", `{}`, "boom", p))
	h.ServeHTTP(httptest.NewRecorder(), routedRequest(http.MethodPost, "/order", `{}`, "boom", p))

	assert.Empty(t, store.records)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyRejectsChangedBody(t *testing.T) {
	store := newMemoryReplayStore()
	var calls int
	h := Idempotency(store, time.Hour, nil)(countingHandler(http.StatusOK, &calls))
	p := buyer()

	h.ServeHTTP(httptest.NewRecorder(), routedRequest(http.MethodPost, "/order", `{"cart_id":"a"}`, "xyz", p))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, routedRequest(http.MethodPost, "/order", `{"cart_id":"b"}`, "xyz", p))
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(pkgerrors.CodeIdempotency), body.Error.Code)
	assert.Equal(t, 1, calls)
}
