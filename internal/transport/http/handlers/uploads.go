package handlers

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/service"
	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
)

// UploadFile принимает multipart-поле "file" и возвращает URL загруженного объекта.
// Тело ограничено MaxUploadBytes (плюс запас на служебные части multipart).
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+1<<20)
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		apierrors.WriteError(w, r, errors.Join(service.ErrInvalidArgument, err))
		return
	}
	defer f.Close()

	url, err := h.App.Service().UploadFile(r.Context(), models.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Reader:      f,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
