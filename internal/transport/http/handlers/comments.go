package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/travel-blog/internal/models"
	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
	"github.com/pribylovaa/travel-blog/internal/validation"
)

type commentsView struct {
	ArticleID models.ID        `json:"articleId"`
	Comments  []models.Comment `json:"comments"`
}

func (h *Handlers) commentsOf(id models.ID) commentsView {
	cs := h.App.Comments().Comments(id)
	if cs == nil {
		cs = []models.Comment{}
	}

	return commentsView{ArticleID: id, Comments: cs}
}

// ListComments загружает комментарии статьи. ?title= задаёт заголовок статьи,
// по которому они читаются; без него используется запомненный ранее.
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if err := h.App.Comments().FetchComments(r.Context(), id, title); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.commentsOf(id))
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	form, ok := commentForm(w, r)
	if !ok {
		return
	}

	if err := h.App.Comments().AddComment(r.Context(), form.Content, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.commentsOf(id))
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	form, ok := commentForm(w, r)
	if !ok {
		return
	}

	if err := h.App.Comments().UpdateComment(r.Context(), chi.URLParam(r, "documentID"), form.Content); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Comments().DeleteComment(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearCommentsCache — уход со страницы статьи: кэш комментариев сбрасывается целиком.
func (h *Handlers) ClearCommentsCache(w http.ResponseWriter, _ *http.Request) {
	h.App.Comments().ClearComments()
	w.WriteHeader(http.StatusNoContent)
}

func commentForm(w http.ResponseWriter, r *http.Request) (validation.CommentForm, bool) {
	var form validation.CommentForm
	if err := decodeStrict(r, &form); err != nil {
		apierrors.WriteError(w, r, err)
		return form, false
	}

	form.Content = strings.TrimSpace(form.Content)
	if errs := validation.Validate(form); errs != nil {
		apierrors.WriteError(w, r, errs)
		return form, false
	}

	return form, true
}
