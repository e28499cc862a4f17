package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
)

func (s *testServer) doForm(method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func TestUserUpdateBlankPasswordKeepsCurrent(t *testing.T) {
	s := newTestServer(t)
	s.registerUser("salma")
	token := s.loginUser("salma").Token

	resp := s.do(http.MethodPatch, "/user/update", token, map[string]string{"password": "", "full_location": "Aswan"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Aswan", decodeData[users.UserDTO](t, resp).FullLocation)

	s.loginUser("salma")
}

func TestUserUpdateBlankUsernameRejected(t *testing.T) {
	s := newTestServer(t)
	s.registerUser("omar")
	token := s.loginUser("omar").Token

	resp := s.do(http.MethodPatch, "/user/update", token, map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestStoreUpdateJSONBlankFields(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("NileBakery")
	token := s.loginStore("NileBakery").Token

	resp := s.do(http.MethodPatch, "/store/update", token, map[string]string{"password": "", "bio": "since 1990"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "since 1990", decodeData[stores.StoreDTO](t, resp).Bio)
	s.loginStore("NileBakery")

	resp = s.do(http.MethodPatch, "/store/update", token, map[string]string{"store_name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestStoreUpdateFormIgnoresBlankFields(t *testing.T) {
	s := newTestServer(t)
	s.registerStore("DeltaFarm")
	token := s.loginStore("DeltaFarm").Token

	resp := s.doForm(http.MethodPatch, "/store/update", token, map[string]string{
		"store_name":    "",
		"password":      "",
		"full_location": "Luxor",
		"bio":           "fresh eggs",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	store := decodeData[stores.StoreDTO](t, resp)
	assert.Equal(t, "DeltaFarm", store.StoreName)
	assert.Equal(t, "Luxor", store.FullLocation)
	assert.Equal(t, "fresh eggs", store.Bio)

	s.loginStore("DeltaFarm")
}
