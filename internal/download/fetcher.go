package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nowesr1/snapstash/internal/http"
	ioutils "github.com/nowesr1/snapstash/internal/io"
	"github.com/nowesr1/snapstash/internal/logger"
	"github.com/nowesr1/snapstash/internal/model"
)

// ThumbnailDir is the hidden subdirectory of the destination that holds
// image previews.
const ThumbnailDir = ".thumbnails"

// FetcherConfig holds the options of a Fetcher.
type FetcherConfig struct {
	// UniqueFilenames appends the record ID to each name so records that
	// share a timestamp do not collide.
	UniqueFilenames bool
	// SaveThumbnails writes a JPEG preview of every saved image.
	SaveThumbnails bool
	// ThumbnailMaxSize is the preview bounding box in pixels.
	ThumbnailMaxSize int
}

// Fetcher downloads a single record into a directory.
type Fetcher struct {
	client *http.Client
	images *ioutils.ImageService
	cfg    FetcherConfig
	log    logger.Logger
}

// NewFetcher creates a Fetcher. A nil log discards output.
func NewFetcher(client *http.Client, cfg FetcherConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{
		client: client,
		images: ioutils.NewImageService(),
		cfg:    cfg,
		log:    log,
	}
}

// Filename returns the name the record is stored under.
func (f *Fetcher) Filename(rec *model.Record) string {
	if f.cfg.UniqueFilenames {
		return rec.UniqueFilename()
	}
	return rec.TargetFilename()
}

// Fetch resolves one record. It never returns an error directly; failures
// are carried in the Outcome.
//
// An existing file at the target path is never compared or overwritten.
func (f *Fetcher) Fetch(ctx context.Context, rec *model.Record, destDir string) Outcome {
	path := filepath.Join(destDir, f.Filename(rec))
	out := Outcome{Record: rec, Path: path}

	if ioutils.Exists(path) {
		out.Status = StatusSkipped
		f.log.Debug("already exists", logger.String("path", path))
		return out
	}

	u, ok := rec.EffectiveURL()
	if !ok {
		return f.fail(out, fmt.Errorf("%w: record %s", ErrInvalidURL, rec.ID))
	}

	data, err := f.client.Get(ctx, u.String())
	if err != nil {
		return f.fail(out, fmt.Errorf("%w: %w", ErrTransfer, err))
	}

	if err := ioutils.WriteFileAtomic(path, data); err != nil {
		return f.fail(out, fmt.Errorf("%w: %w", ErrWrite, err))
	}

	if ts, ok := rec.Timestamp(); ok {
		if err := ioutils.SetFileTime(path, ts); err != nil {
			f.log.Warn("set file time", logger.String("path", path), logger.Error(err))
		}
	}

	if f.cfg.SaveThumbnails && rec.Kind == model.KindImage {
		f.saveThumbnail(ctx, destDir, path, data)
	}

	out.Status = StatusSaved
	out.Bytes = int64(len(data))
	f.log.Debug("saved", logger.String("path", path), logger.Int64("bytes", out.Bytes))
	return out
}

func (f *Fetcher) saveThumbnail(ctx context.Context, destDir, path string, data []byte) {
	thumb, err := f.images.Thumbnail(ctx, data, f.cfg.ThumbnailMaxSize)
	if err != nil {
		f.log.Warn("thumbnail", logger.String("path", path), logger.Error(err))
		return
	}

	dir := filepath.Join(destDir, ThumbnailDir)
	if err := ioutils.EnsureDir(dir); err != nil {
		f.log.Warn("thumbnail dir", logger.String("dir", dir), logger.Error(err))
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".jpg"
	if err := ioutils.WriteFileAtomic(filepath.Join(dir, name), thumb); err != nil {
		f.log.Warn("thumbnail write", logger.String("path", path), logger.Error(err))
	}
}

func (f *Fetcher) fail(out Outcome, err error) Outcome {
	out.Status = StatusFailed
	out.Err = err
	f.log.Warn("fetch failed",
		logger.String("record", out.Record.ID),
		logger.String("path", out.Path),
		logger.Error(err),
	)
	return out
}
