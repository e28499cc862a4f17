package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/shaheen-amjed/shodix-api/api/responses"
	"github.com/shaheen-amjed/shodix-api/api/validators"
	"github.com/shaheen-amjed/shodix-api/internal/products"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
	"github.com/shaheen-amjed/shodix-api/pkg/pagination"
)

const productImageField = "product_img"

// ProductCreate lists a new product for the calling store. JSON and multipart
// bodies are accepted; only multipart can carry product_img.
func ProductCreate(svc products.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.CreateProductInput
		if validators.IsMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			closeFile, err := createInputFromForm(r, &input)
			defer closeFile()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), principal, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, product)
	}
}

func createInputFromForm(r *http.Request, input *products.CreateProductInput) (func(), error) {
	noop := func() {}
	input.Name = validators.FormValue(r, "name")
	input.Description = validators.FormValue(r, "description")
	input.Country = validators.FormValue(r, "country")

	price, err := validators.FormDecimal(r, "price")
	if err != nil {
		return noop, err
	}
	if price == nil {
		return noop, pkgerrors.New(pkgerrors.CodeValidation, "price is required").WithDetails(map[string]any{"field": "price"})
	}
	input.Price = *price

	stock, err := validators.FormInt(r, "stock")
	if err != nil {
		return noop, err
	}
	if stock != nil {
		input.Stock = *stock
	}
	if err := validators.ValidateStruct(input); err != nil {
		return noop, err
	}

	upload, closeFile, err := validators.FormFile(r, productImageField)
	if err != nil {
		return noop, err
	}
	input.Image = upload
	return closeFile, nil
}

// ProductUpdate edits a product owned by the calling store.
func ProductUpdate(svc products.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.UpdateProductInput
		if validators.IsMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			closeFile, err := updateInputFromForm(r, &input)
			defer closeFile()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), principal, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func updateInputFromForm(r *http.Request, input *products.UpdateProductInput) (func(), error) {
	noop := func() {}
	id, err := uuid.Parse(strings.TrimSpace(validators.FormValue(r, "product_id")))
	if err != nil {
		return noop, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid uuid").WithDetails(map[string]any{"field": "product_id"})
	}
	input.ProductID = id
	input.Name = validators.FormString(r, "name")
	input.Description = validators.FormString(r, "description")
	input.Country = validators.FormString(r, "country")

	if input.Price, err = validators.FormDecimal(r, "price"); err != nil {
		return noop, err
	}
	if input.Stock, err = validators.FormInt(r, "stock"); err != nil {
		return noop, err
	}
	if err := validators.ValidateStruct(input); err != nil {
		return noop, err
	}

	upload, closeFile, err := validators.FormFile(r, productImageField)
	if err != nil {
		return noop, err
	}
	input.Image = upload
	return closeFile, nil
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body products.DeleteProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), principal, body.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"msg": "product deleted", "product_id": body.ProductID})
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		id, err := validators.ParseURLUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductList pages through the whole catalog with ?limit= and ?cursor=.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ProductListByStore(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product"))
			return
		}
		storeID, err := validators.ParseURLUUID(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	q := r.URL.Query()
	params := pagination.Params{Cursor: strings.TrimSpace(q.Get("cursor"))}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer").WithDetails(map[string]any{"field": "limit"})
		}
		params.Limit = limit
	}
	return params, nil
}
