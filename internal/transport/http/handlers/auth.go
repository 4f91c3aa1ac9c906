package handlers

import (
	"net/http"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/store"
	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
	"github.com/pribylovaa/travel-blog/internal/validation"
)

// authView — состояние авторизации для UI. Токен наружу не отдаётся.
type authView struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user,omitempty"`
	Error           string       `json:"error,omitempty"`
}

func viewAuth(st store.AuthState) authView {
	return authView{IsAuthenticated: st.IsAuthenticated, User: st.User, Error: st.Error}
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var form validation.LoginForm
	if err := decodeStrict(r, &form); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.App.Login(r.Context(), form); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, viewAuth(h.App.Auth().State()))
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var form validation.RegisterForm
	if err := decodeStrict(r, &form); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if _, err := h.App.Register(r.Context(), form); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewAuth(h.App.Auth().State()))
}

// Logout всегда успешен: локальная сессия очищается даже при ошибке хранилища.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.App.Auth().Logout(r.Context())
	h.App.Articles().ResetArticles()
	h.App.Comments().ClearComments()

	w.WriteHeader(http.StatusNoContent)
}

// Session — текущее состояние после сверки с сохранённой сессией.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewAuth(h.App.UseAuth(r.Context())))
}

// Me — профиль пользователя с сервера (GET /users/me).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.App.Service().Me(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}
