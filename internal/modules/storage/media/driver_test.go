package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/debtprotection/blog-core/internal/config"
)

func TestLocalDriver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	d := NewLocalDriver(dir, "https://blog.example.com/")
	ctx := context.Background()

	url, err := d.Put(ctx, "media-abc.png", pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/uploads/media-abc.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "media-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)

	require.NoError(t, d.Delete(ctx, "media-abc.png"))
	_, err = os.Stat(filepath.Join(dir, "media-abc.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine.
	require.NoError(t, d.Delete(ctx, "media-abc.png"))

	_, err = d.Put(ctx, "../escape.png", pngBytes, "image/png")
	assert.Error(t, err)
}

func TestLocalDriverRelativeURL(t *testing.T) {
	d := NewLocalDriver(t.TempDir(), "")
	url, err := d.Put(context.Background(), "a.png", pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)
}

func TestS3Driver(t *testing.T) {
	type call struct {
		method, path, contentType string
		body                      []byte
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get("Content-Type"), body})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d, err := NewS3Driver(appcfg.S3Config{
		Bucket:          "blog",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Prefix:          "media",
	})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, d.Name())

	ctx := context.Background()
	url, err := d.Put(ctx, "media-abc.png", pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/blog/media/media-abc.png", url)
	require.NoError(t, d.Delete(ctx, "media-abc.png"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/blog/media/media-abc.png", calls[0].path)
	assert.Equal(t, "image/png", calls[0].contentType)
	assert.Equal(t, pngBytes, calls[0].body)
	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, "/blog/media/media-abc.png", calls[1].path)
}

func TestS3DriverPublicURL(t *testing.T) {
	d, err := NewS3Driver(appcfg.S3Config{Bucket: "blog", Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.s3.eu-west-1.amazonaws.com/k", d.publicURL+"/"+d.key("k"))

	d, err = NewS3Driver(appcfg.S3Config{Bucket: "blog", Region: "auto", PublicURL: "https://cdn.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", d.publicURL)

	_, err = NewS3Driver(appcfg.S3Config{})
	assert.Error(t, err)
}

func TestNewDriverPicksConfiguredDriver(t *testing.T) {
	cfg := &appcfg.AppConfig{Paths: appcfg.RuntimePathsConfig{Uploads: t.TempDir()}}
	d, err := NewDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverLocal, d.Name())

	cfg.Storage = appcfg.StorageConfig{Driver: DriverS3, S3: appcfg.S3Config{Bucket: "b", Region: "us-east-1"}}
	d, err = NewDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverS3, d.Name())
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", detectContentType("a.bin", nil, "image/png; charset=binary"))
	assert.Equal(t, "image/png", detectContentType("a.png", pngBytes, "application/octet-stream"))
	assert.Equal(t, "image/png", detectContentType("noext", pngBytes, ""))
	assert.Equal(t, "application/octet-stream", detectContentType("", nil, ""))
}

func TestBuildFileName(t *testing.T) {
	assert.Regexp(t, `^media-[0-9a-f]{18}\.jpg$`, buildFileName("Photo.JPG", ".dat"))
	assert.Regexp(t, `^media-[0-9a-f]{18}\.dat$`, buildFileName("noext", ".dat"))
	assert.Regexp(t, `^media-[0-9a-f]{18}\.dat$`, buildFileName("x.t?xt", ".dat"))
	assert.NotEqual(t, buildFileName("a.png", ".dat"), buildFileName("a.png", ".dat"))
}
