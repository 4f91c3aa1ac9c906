// Package handlers — JSON-эндпойнты шлюза поверх сторов приложения.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/travel-blog/internal/app"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/service"
)

// Handlers агрегирует зависимости: контейнер приложения и лимит загрузки.
type Handlers struct {
	App            *app.App
	MaxUploadBytes int64
}

func New(a *app.App, maxUploadBytes int64) *Handlers {
	return &Handlers{App: a, MaxUploadBytes: maxUploadBytes}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return errors.Join(service.ErrInvalidArgument, err)
	}

	return nil
}

// pathID — числовой id статьи из пути.
func pathID(r *http.Request, name string) (models.ID, error) {
	id, err := models.ParseID(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.Join(service.ErrInvalidArgument, err)
	}

	return id, nil
}
