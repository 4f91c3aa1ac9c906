package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/repository"
)

const defaultUploadError = "Failed to upload file"

// Upload — POST /upload, multipart-поле "files".
// Тело стримится через io.Pipe; ответ буферизуется один раз и разбирается
// без JSON-допущений общего Request: сначала проверяется статус, затем текст ошибки
// пробуется как JSON, затем используется сообщение по умолчанию.
func (r *Repository) Upload(ctx context.Context, token string, f models.File) ([]models.UploadedFile, error) {
	const op = "repository/strapi/Upload"

	if f.Reader == nil {
		return nil, fmt.Errorf("%s: empty file: %w", op, repository.ErrInvalidArgument)
	}

	if r.limits.UploadMaxBytes > 0 && f.Size > r.limits.UploadMaxBytes {
		return nil, fmt.Errorf("%s: file size %d exceeds %d: %w", op, f.Size, r.limits.UploadMaxBytes, repository.ErrInvalidArgument)
	}

	pr, pw := io.Pipe()
	defer pr.Close()

	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeFilePart(mw, f))
	}()

	resp, err := r.client.Send(ctx, "/upload", apiclient.RequestOptions{
		Method:      http.MethodPost,
		Data:        apiclient.Multipart{Body: pr, ContentType: mw.FormDataContentType()},
		ContentType: apiclient.ContentMultipart,
		Token:       token,
	})
	if err != nil {
		return nil, fail(op, err)
	}

	if !resp.OK() {
		apiErr := apiclient.NewAPIError(resp)
		ae := apperrors.Categorize(apiErr)

		return nil, fmt.Errorf("%s: %w", op, &apperrors.AppError{
			Type:    ae.Type,
			Message: uploadErrorMessage(resp.Body),
			Err:     apiErr,
		})
	}

	var files []models.UploadedFile
	if err := json.Unmarshal(resp.Body, &files); err != nil {
		return nil, fail(op, fmt.Errorf("%w: %v", apiclient.ErrUnexpectedBody, err))
	}

	return files, nil
}

func writeFilePart(mw *multipart.Writer, f models.File) error {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(f.Name)))
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, f.Reader); err != nil {
		return err
	}

	return mw.Close()
}

// uploadErrorMessage — message или error.message из JSON-тела, иначе сообщение по умолчанию.
func uploadErrorMessage(body []byte) string {
	var v struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &v); err != nil {
		return defaultUploadError
	}

	switch {
	case v.Message != "":
		return v.Message
	case v.Error.Message != "":
		return v.Error.Message
	default:
		return defaultUploadError
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
