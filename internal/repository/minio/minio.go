// minio предоставляет реализацию repository.Uploads на базе MinIO/S3:
// файлы обложек кладутся в бакет напрямую, минуя /upload контент-API.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/travel-blog/internal/config"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/repository"
)

// Uploads — адаптер MinIO для загрузки файлов.
type Uploads struct {
	cfg      config.S3Config
	maxBytes int64
	client   *mclient.Client
}

var _ repository.Uploads = (*Uploads)(nil)

// New создаёт клиент MinIO.
// Endpoint может быть со схемой (http/https) или без неё; наличие бакета проверяется сразу.
func New(ctx context.Context, cfg config.UploadConfig) (*Uploads, error) {
	const op = "repository/minio/New"

	endpoint := cfg.S3.Endpoint
	secure := cfg.S3.UseSSL

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &Uploads{cfg: cfg.S3, maxBytes: cfg.MaxBytes, client: client}, nil
}

// Upload кладёт файл под ключ uploads/<uuid><ext> и возвращает его публичный URL.
// token не используется: доступ к бакету определяется ключами S3.
func (u *Uploads) Upload(ctx context.Context, _ string, f models.File) ([]models.UploadedFile, error) {
	const op = "repository/minio/Upload"

	if f.Reader == nil {
		return nil, fmt.Errorf("%s: empty file: %w", op, repository.ErrInvalidArgument)
	}

	if u.maxBytes > 0 && f.Size > u.maxBytes {
		return nil, fmt.Errorf("%s: file size %d exceeds %d: %w", op, f.Size, u.maxBytes, repository.ErrInvalidArgument)
	}

	size := f.Size
	if size <= 0 {
		size = -1
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join("uploads", uuid.NewString()+strings.ToLower(filepath.Ext(f.Name)))

	info, err := u.client.PutObject(ctx, u.cfg.Bucket, key, f.Reader, size, mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return []models.UploadedFile{{
		Name: f.Name,
		URL:  u.publicURL(key),
		Mime: contentType,
		// Strapi отдаёт size в килобайтах.
		Size: float64(info.Size) / 1024,
	}}, nil
}

func (u *Uploads) publicURL(key string) string {
	return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
}
