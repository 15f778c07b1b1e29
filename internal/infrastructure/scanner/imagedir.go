package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"labelkit/internal/domain/scan"
	"labelkit/pkg/logger"
)

// ImageDirName is the name of the image-drop backend.
const ImageDirName = "imagedir"

var errWatcherClosed = errors.New("watcher closed")

// ImageDir decodes frames that a camera tool drops into a directory.
// It is the software fallback when no hardware reader is attached.
type ImageDir struct {
	dir     string
	decoder *Decoder
	log     *logger.Logger
}

var _ scan.Backend = (*ImageDir)(nil)

// NewImageDir creates a backend watching dir.
func NewImageDir(dir string, log *logger.Logger) *ImageDir {
	if log == nil {
		log = logger.Default()
	}
	return &ImageDir{
		dir:     dir,
		decoder: NewDecoder(),
		log:     log.WithComponent("imagedir").With("dir", dir),
	}
}

func (d *ImageDir) Name() string { return ImageDirName }

// Available reports whether the directory exists.
func (d *ImageDir) Available() bool {
	if d.dir == "" {
		return false
	}
	info, err := os.Stat(d.dir)
	return err == nil && info.IsDir()
}

// Open starts watching the directory for new frames.
func (d *ImageDir) Open(ctx context.Context) (scan.Capture, error) {
	if d.dir == "" {
		return nil, errors.New("image directory not configured")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(d.dir); err != nil {
		watcher.Close()
		return nil, err
	}
	return &imageDirCapture{watcher: watcher, decoder: d.decoder, log: d.log}, nil
}

type imageDirCapture struct {
	watcher *fsnotify.Watcher
	decoder *Decoder
	log     *logger.Logger
}

// Poll decodes at most one pending frame.
func (c *imageDirCapture) Poll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case ev, ok := <-c.watcher.Events:
		if !ok {
			return "", errWatcherClosed
		}
		if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
			return "", nil
		}
		if !isFrame(ev.Name) {
			return "", nil
		}
		text, err := c.decoder.DecodeFile(ev.Name)
		if err != nil {
			// frames may be half written; the next write event retries
			c.log.Debugw("frame not decoded", "file", ev.Name, "error", err)
			return "", nil
		}
		return text, nil
	case err, ok := <-c.watcher.Errors:
		if !ok {
			return "", errWatcherClosed
		}
		return "", err
	default:
		return "", nil
	}
}

func (c *imageDirCapture) Close() error {
	return c.watcher.Close()
}

func isFrame(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
