package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/store"
	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
	"github.com/pribylovaa/travel-blog/internal/validation"
)

// articlesView — лента в том виде, в каком её держит стор.
type articlesView struct {
	Articles []models.Article      `json:"articles"`
	Loading  bool                  `json:"loading"`
	Error    string                `json:"error,omitempty"`
	HasMore  bool                  `json:"hasMore"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Filters  models.ArticleFilters `json:"filters"`
}

func viewArticles(st store.ArticleState) articlesView {
	return articlesView{
		Articles: st.Articles,
		Loading:  st.Loading,
		Error:    st.Error,
		HasMore:  st.HasMore,
		Page:     st.Page,
		PageSize: st.PageSize,
		Filters:  st.Filters,
	}
}

// ListArticles загружает первую страницу с текущими фильтрами (без входа — пустая лента).
// Ошибки загрузки отражаются в поле error, а не статусом ответа.
func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	st, err := h.App.UseArticles(r.Context())
	if errors.Is(err, store.ErrSuperseded) {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewArticles(st))
}

// ArticlesState — состояние стора без обращения к API.
func (h *Handlers) ArticlesState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewArticles(h.App.Articles().State()))
}

func (h *Handlers) LoadMoreArticles(w http.ResponseWriter, r *http.Request) {
	if _, err := h.App.Articles().LoadMoreArticles(r.Context()); errors.Is(err, store.ErrSuperseded) {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewArticles(h.App.Articles().State()))
}

func (h *Handlers) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	var form validation.FilterForm
	if err := decodeStrict(r, &form); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.App.ApplyFilters(r.Context(), form)
	var fe validation.FieldErrors
	if errors.As(err, &fe) || errors.Is(err, store.ErrSuperseded) {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewArticles(st))
}

func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	st, err := h.App.ClearFilters(r.Context())
	if errors.Is(err, store.ErrSuperseded) {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewArticles(st))
}

func (h *Handlers) CreateArticle(w http.ResponseWriter, r *http.Request) {
	form, ok := h.articleForm(w, r)
	if !ok {
		return
	}

	a, err := h.App.Articles().CreateArticle(r.Context(), form.Input())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	form, ok := h.articleForm(w, r)
	if !ok {
		return
	}

	a, err := h.App.Articles().UpdateArticle(r.Context(), chi.URLParam(r, "id"), form.Input())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Articles().DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) articleForm(w http.ResponseWriter, r *http.Request) (validation.ArticleForm, bool) {
	var form validation.ArticleForm
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
