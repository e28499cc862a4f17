package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shaheen-amjed/shodix-api/api/responses"
	"github.com/shaheen-amjed/shodix-api/api/validators"
	"github.com/shaheen-amjed/shodix-api/internal/conversations"
	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
)

// ConversationRead returns the messages between a store and a user, oldest
// first. The conversation is created on first access.
func ConversationRead(svc conversations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("conversation"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeName, username, err := conversationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msgs, err := svc.Read(r.Context(), principal, storeName, username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, msgs)
	}
}

func ConversationAppend(svc conversations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("conversation"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeName, username, err := conversationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body conversations.AppendRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.Append(r.Context(), principal, storeName, username, body.Msg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, msg)
	}
}

// Inbox lists the caller's conversations with the latest message of each.
func Inbox(svc conversations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("conversation"))
			return
		}
		principal, err := principalFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.Inbox(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func conversationParams(r *http.Request) (string, string, error) {
	storeName := strings.TrimSpace(chi.URLParam(r, "storeName"))
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if storeName == "" || username == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "store and user names are required")
	}
	return storeName, username, nil
}
