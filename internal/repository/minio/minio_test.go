package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/travel-blog/internal/config"
	"github.com/pribylovaa/travel-blog/internal/models"
	"github.com/pribylovaa/travel-blog/internal/repository"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — проверяют:
//    New: ошибку при отсутствии бакета;
//    Upload: объект доступен по ключу uploads/<uuid><ext>, URL собран из PublicBaseURL,
//    ограничения размера и пустой файл.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/repository/minio -v -race -count=1

const (
	rootUser     = "root"
	rootPassword = "rootpass"
	bucket       = "covers"
)

func startMinio(t *testing.T, createBucket bool) (config.UploadConfig, *mclient.Client) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")

	admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
		Creds: credentials.NewStaticV4(rootUser, rootPassword, ""),
	})
	require.NoError(t, err)

	if createBucket {
		require.NoError(t, admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"}))
	}

	return config.UploadConfig{
		Backend:  config.UploadBackendS3,
		MaxBytes: 1 << 10,
		S3: config.S3Config{
			Endpoint:      fmt.Sprintf("http://%s:%s", host, port.Port()),
			AccessKey:     rootUser,
			SecretKey:     rootPassword,
			Bucket:        bucket,
			PublicBaseURL: "http://cdn.local/covers/",
		},
	}, admin
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	cfg, _ := startMinio(t, false)

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "does not exist")
}

func TestIntegration_Upload_OK(t *testing.T) {
	cfg, admin := startMinio(t, true)
	ctx := context.Background()

	up, err := New(ctx, cfg)
	require.NoError(t, err)

	files, err := up.Upload(ctx, "ignored", models.File{
		Name:        "Beach.JPG",
		ContentType: "image/jpeg",
		Size:        5,
		Reader:      strings.NewReader("hello"),
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, strings.HasPrefix(files[0].URL, "http://cdn.local/covers/uploads/"))
	require.True(t, strings.HasSuffix(files[0].URL, ".jpg"))
	require.Equal(t, "image/jpeg", files[0].Mime)

	key := strings.TrimPrefix(files[0].URL, "http://cdn.local/covers/")
	obj, err := admin.GetObject(ctx, bucket, key, mclient.GetObjectOptions{})
	require.NoError(t, err)
	b, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))

	st, err := admin.StatObject(ctx, bucket, key, mclient.StatObjectOptions{})
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", st.ContentType)
}

func TestIntegration_Upload_Limits(t *testing.T) {
	cfg, _ := startMinio(t, true)
	ctx := context.Background()

	up, err := New(ctx, cfg)
	require.NoError(t, err)

	_, err = up.Upload(ctx, "", models.File{Name: "a.png"})
	require.ErrorIs(t, err, repository.ErrInvalidArgument)

	_, err = up.Upload(ctx, "", models.File{Name: "a.png", Size: 4096, Reader: strings.NewReader("x")})
	require.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	u := &Uploads{cfg: config.S3Config{PublicBaseURL: "http://cdn.local/covers/"}}
	require.Equal(t, "http://cdn.local/covers/uploads/x.jpg", u.publicURL("uploads/x.jpg"))
}
