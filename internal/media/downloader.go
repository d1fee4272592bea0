package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/IshaanNene/newsbot/internal/observability"
	"github.com/IshaanNene/newsbot/internal/types"
)

// chunkSize is the size of each write while streaming a body to disk.
const chunkSize = 1024

// timestampLayout gives picture_<YYYYMMDDHHMMSS>.jpg names.
const timestampLayout = "20060102150405"

// Downloader streams article images to local files.
type Downloader struct {
	dir    string
	client *resty.Client
	stats  *observability.RunStats
	now    func() time.Time
	used   map[string]bool
	logger *slog.Logger
}

// Option configures the Downloader.
type Option func(*Downloader)

// WithStats counts downloads and bytes into s.
func WithStats(s *observability.RunStats) Option {
	return func(d *Downloader) { d.stats = s }
}

// WithClock overrides the clock used to name files.
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) { d.now = now }
}

// NewDownloader creates a downloader writing into dir.
func NewDownloader(dir string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Downloader {
	if dir == "" {
		dir = "."
	}
	d := &Downloader{
		dir:    dir,
		client: resty.New().SetTimeout(timeout),
		now:    time.Now,
		used:   make(map[string]bool),
		logger: logger.With("component", "media_downloader"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadImage streams rawURL to picture_<YYYYMMDDHHMMSS>.jpg and returns
// the file name. An empty URL returns "" without touching the network. Any
// transport failure or status >= 400 is returned as a *types.DownloadError.
func (d *Downloader) DownloadImage(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}
	start := time.Now()

	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return "", &types.DownloadError{URL: rawURL, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return "", &types.DownloadError{
			URL:        rawURL,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", &types.DownloadError{URL: rawURL, Err: fmt.Errorf("create image dir: %w", err)}
	}
	filename := d.nextName()
	localPath := filepath.Join(d.dir, filename)

	f, err := os.Create(localPath)
	if err != nil {
		return "", &types.DownloadError{URL: rawURL, Err: fmt.Errorf("create file: %w", err)}
	}

	size, err := copyChunks(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(localPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			d.logger.Warn("failed to remove partial image", "file", localPath, "error", rerr)
		}
		return "", &types.DownloadError{URL: rawURL, Err: fmt.Errorf("write file: %w", err)}
	}

	if d.stats != nil {
		d.stats.ImagesDownloaded.Add(1)
		d.stats.BytesDownloaded.Add(size)
	}
	d.logger.Debug("image downloaded",
		"url", rawURL,
		"file", filename,
		"size", size,
		"duration", time.Since(start),
	)
	return filename, nil
}

// nextName returns the timestamped name, suffixed with _N when an earlier
// image in this run already used the same second.
func (d *Downloader) nextName() string {
	base := "picture_" + d.now().Format(timestampLayout)
	name := base + ".jpg"
	for n := 1; d.used[name]; n++ {
		name = fmt.Sprintf("%s_%d.jpg", base, n)
	}
	d.used[name] = true
	return name
}

func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// FirstSrcsetURL returns the first candidate URL of a srcset value, or the
// value itself when it is a plain URL. Commas inside a URL are kept; only a
// trailing comma ends the candidate.
func FirstSrcsetURL(v string) string {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ",")
}
