package media

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/newsbot/internal/observability"
	"github.com/IshaanNene/newsbot/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var pictureName = regexp.MustCompile(`^picture_\d{14}\.jpg$`)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
}

func TestDownloadImageEmptyURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir(), 5*time.Second, testLogger)
	name, err := d.DownloadImage(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, name)
	require.Zero(t, hits.Load())
}

func TestDownloadImageWritesFile(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF, 0xD8, 0xFF}, 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	stats := observability.NewRunStats(testLogger)
	d := NewDownloader(dir, 5*time.Second, testLogger, WithStats(stats))

	name, err := d.DownloadImage(context.Background(), srv.URL+"/img.jpg")
	require.NoError(t, err)
	require.Regexp(t, pictureName, name)

	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), info.Size())

	require.Equal(t, int64(1), stats.ImagesDownloaded.Load())
	require.Equal(t, int64(len(payload)), stats.BytesDownloaded.Load())
}

func TestDownloadImageSameSecond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir(), 5*time.Second, testLogger, WithClock(fixedClock))

	first, err := d.DownloadImage(context.Background(), srv.URL+"/a.jpg")
	require.NoError(t, err)
	second, err := d.DownloadImage(context.Background(), srv.URL+"/b.jpg")
	require.NoError(t, err)

	require.Equal(t, "picture_20240501130405.jpg", first)
	require.Equal(t, "picture_20240501130405_1.jpg", second)
}

func TestDownloadImageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir, 5*time.Second, testLogger)
	name, err := d.DownloadImage(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	require.Empty(t, name)

	var dlErr *types.DownloadError
	require.True(t, errors.As(err, &dlErr))
	require.Equal(t, http.StatusNotFound, dlErr.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFirstSrcsetURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"https://x/img.jpg", "https://x/img.jpg"},
		{"/img/one.jpg 1x, /img/one@2x.jpg 2x", "/img/one.jpg"},
		{"  https://x/a.jpg?w=640 640w,https://x/a.jpg?w=1280 1280w", "https://x/a.jpg?w=640"},
		{"https://x/a.jpg?resize=270,180 270w, https://x/b.jpg 540w", "https://x/a.jpg?resize=270,180"},
		{"https://x/a.jpg, https://x/b.jpg 2x", "https://x/a.jpg"},
	}
	for _, tt := range tests {
		if got := FirstSrcsetURL(tt.in); got != tt.want {
			t.Errorf("FirstSrcsetURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDownloadImageTruncatedBodyRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10000")
		w.Write(bytes.Repeat([]byte{0xFF}, 3000))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir, 5*time.Second, testLogger)
	name, err := d.DownloadImage(context.Background(), srv.URL+"/cut.jpg")
	require.Empty(t, name)

	var dlErr *types.DownloadError
	require.True(t, errors.As(err, &dlErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
