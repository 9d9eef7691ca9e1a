package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
)

type contactCreatedResponse struct {
	Message string          `json:"message"`
	Contact *models.Contact `json:"contact"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (h *handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.contacts.Submit(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactCreatedResponse{Message: "message received", Contact: c})
}

func (h *handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ContactFilter{Status: q.Get("status")}

	if v := q.Get("isRead"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: isRead must be true or false", common.ErrorValidation))
			return
		}
		filter.IsRead = &b
	}

	list, err := h.contacts.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) getContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.contacts.UnreadCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *handlers) markContactAsRead(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	var in services.StatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.contacts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) deleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "contact deleted")
}
