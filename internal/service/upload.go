package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// UploadFile загружает файл и возвращает URL первого загруженного объекта.
func (s *Service) UploadFile(ctx context.Context, f models.File) (string, error) {
	const op = "service/upload/UploadFile"

	tok, err := s.token(ctx, op)
	if err != nil {
		return "", err
	}

	files, err := s.repos.Uploads.Upload(ctx, tok, f)
	if err != nil {
		return "", writeFailed(ctx, op, "upload_failed", err)
	}

	if len(files) == 0 || files[0].URL == "" {
		log.From(ctx).Error("upload_empty_response", slog.String("op", op), slog.String("name", f.Name))
		return "", fmt.Errorf("%s: %w", op, ErrEmptyUpload)
	}

	return files[0].URL, nil
}
