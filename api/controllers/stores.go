package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shaheen-amjed/shodix-api/api/responses"
	"github.com/shaheen-amjed/shodix-api/api/validators"
	"github.com/shaheen-amjed/shodix-api/internal/follows"
	"github.com/shaheen-amjed/shodix-api/internal/stores"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

// StoreProfile returns the public profile of a store with its follower count.
func StoreProfile(svc stores.Service, followSvc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || followSvc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store"))
			return
		}
		name, err := storeNameParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.GetByName(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		count, err := followSvc.Count(r.Context(), store.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores.ProfileDTO{StoreDTO: *store, Followers: count.FollowersCount})
	}
}

func StoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// StoreIsOwner tells a client whether to render owner controls on a store page.
func StoreIsOwner(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		name, err := storeNameParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner, err := svc.IsOwner(r.Context(), principal, name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"owner": owner})
	}
}

type storeUpdateRequest struct {
	StoreName    *string `json:"store_name" validate:"omitempty,displayname"`
	Password     *string `json:"password" validate:"omitempty,max=128"`
	FullLocation *string `json:"full_location" validate:"omitempty,max=255"`
	Bio          *string `json:"bio" validate:"omitempty,max=2000"`
}

func (req storeUpdateRequest) toInput() stores.UpdateInput {
	return stores.UpdateInput{
		StoreName:    req.StoreName,
		Password:     req.Password,
		FullLocation: req.FullLocation,
		Bio:          req.Bio,
	}
}

// StoreUpdate changes the caller's own store. A multipart body may carry a new
// store_img.
func StoreUpdate(svc stores.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body storeUpdateRequest
		var input stores.UpdateInput
		if validators.IsMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			body = storeUpdateRequest{
				StoreName:    validators.FormOptional(r, "store_name"),
				Password:     validators.FormOptional(r, "password"),
				FullLocation: validators.FormString(r, "full_location"),
				Bio:          validators.FormString(r, "bio"),
			}
			if err := validators.ValidateStruct(&body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			upload, closeFile, err := validators.FormFile(r, storeImageField)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			defer closeFile()
			input = body.toInput()
			input.Image = upload
		} else {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = body.toInput()
		}

		store, err := svc.Update(r.Context(), principal.ID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func storeNameParam(r *http.Request) (string, error) {
	name := strings.TrimSpace(chi.URLParam(r, "storeName"))
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	return name, nil
}
