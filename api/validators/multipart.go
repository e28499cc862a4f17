package validators

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

// formMemory is the part of a multipart body kept in memory; the rest spills to disk.
const formMemory = 1 << 20

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ParseMultipart reads a multipart body capped at maxBytes plus form overhead.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.New(pkgerrors.CodeValidation, "upload too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return nil
}

// FormFile returns the optional file part named field. The returned close func
// is never nil.
func FormFile(r *http.Request, field string) (*storage.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, noop, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, noop, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read "+field)
	}
	return &storage.Upload{Filename: header.Filename, Content: file}, func() { _ = file.Close() }, nil
}

// FormString returns the value of key, or nil when the form does not carry it.
func FormString(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// FormOptional is FormString for fields where an empty input means "unchanged".
// Browsers submit every field of a form, blank or not.
func FormOptional(r *http.Request, key string) *string {
	v := FormString(r, key)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// FormInt parses an optional integer form field.
func FormInt(r *http.Request, key string) (*int, error) {
	raw := FormString(r, key)
	if raw == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, key+" must be an integer").WithDetails(map[string]any{"field": key})
	}
	return &n, nil
}

// FormDecimal parses an optional decimal form field.
func FormDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := FormString(r, key)
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a number").WithDetails(map[string]any{"field": key})
	}
	return &d, nil
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FormValue returns the value of key or the empty string.
func FormValue(r *http.Request, key string) string {
	return stringOrEmpty(FormString(r, key))
}
