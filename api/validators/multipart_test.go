package validators

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

func multipartRequest(t *testing.T, fields map[string]string, fileField string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, "photo.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMultipartFields(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "Lamp", "stock": "4", "price": "19.90"}, "product_img", []byte("img"))
	require.True(t, IsMultipart(req))
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), req, 1<<20))

	assert.Equal(t, "Lamp", FormValue(req, "name"))
	assert.Nil(t, FormString(req, "description"))

	stock, err := FormInt(req, "stock")
	require.NoError(t, err)
	assert.Equal(t, 4, *stock)

	price, err := FormDecimal(req, "price")
	require.NoError(t, err)
	assert.Equal(t, "19.9", price.String())

	upload, closeFn, err := FormFile(req, "product_img")
	require.NoError(t, err)
	defer closeFn()
	require.NotNil(t, upload)
	assert.Equal(t, "photo.png", upload.Filename)
	raw, err := io.ReadAll(upload.Content)
	require.NoError(t, err)
	assert.Equal(t, "img", string(raw))
}

func TestMultipartMissingFile(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "Lamp"}, "", nil)
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), req, 1<<20))

	upload, closeFn, err := FormFile(req, "product_img")
	require.NoError(t, err)
	closeFn()
	assert.Nil(t, upload)
}

func TestMultipartBadNumbers(t *testing.T) {
	req := multipartRequest(t, map[string]string{"stock": "four", "price": "cheap"}, "", nil)
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), req, 1<<20))

	_, err := FormInt(req, "stock")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	_, err = FormDecimal(req, "price")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestIsMultipartRejectsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	assert.False(t, IsMultipart(req))
}
