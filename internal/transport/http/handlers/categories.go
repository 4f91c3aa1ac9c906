package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/travel-blog/internal/models"
	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
	"github.com/pribylovaa/travel-blog/internal/validation"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Categories().FetchCategories(r.Context()); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Category{"categories": h.App.Categories().State().Categories})
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	form, ok := categoryForm(w, r)
	if !ok {
		return
	}

	c, err := h.App.Categories().CreateCategory(r.Context(), form.Input())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	form, ok := categoryForm(w, r)
	if !ok {
		return
	}

	c, err := h.App.Categories().UpdateCategory(r.Context(), chi.URLParam(r, "documentID"), form.Input())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Categories().DeleteCategory(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func categoryForm(w http.ResponseWriter, r *http.Request) (validation.CategoryForm, bool) {
	var form validation.CategoryForm
	if err := decodeStrict(r, &form); err != nil {
		apierrors.WriteError(w, r, err)
		return form, false
	}

	if errs := validation.Validate(form); errs != nil {
		apierrors.WriteError(w, r, errs)
		return form, false
	}

	return form, true
}
