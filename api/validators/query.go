package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// ParseQueryUUID reads a required uuid query parameter.
func ParseQueryUUID(r *http.Request, key string) (uuid.UUID, error) {
	return parseUUID(strings.TrimSpace(r.URL.Query().Get(key)), key)
}

// ParseURLUUID reads a required uuid chi path parameter.
func ParseURLUUID(r *http.Request, key string) (uuid.UUID, error) {
	return parseUUID(strings.TrimSpace(chi.URLParam(r, key)), key)
}

func parseUUID(raw, key string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, key+" is required").WithDetails(map[string]any{"field": key})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a valid uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
