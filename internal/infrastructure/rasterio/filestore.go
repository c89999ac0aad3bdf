package rasterio

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// FileStore keeps grids under a root directory.  Keys are slash-separated
// paths relative to the root.  Keys without a known extension are written
// and read with the store's default codec.
type FileStore struct {
	root   string
	codec  Codec
	logger logging.Logger
}

var _ raster.Store = (*FileStore)(nil)

// NewFileStore creates root if needed.
func NewFileStore(root string, codec Codec, log logging.Logger) (*FileStore, error) {
	if root == "" {
		return nil, errors.InvalidInput("file store root is required")
	}
	if codec == nil {
		codec = SGRD{}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "create raster root")
	}
	return &FileStore{root: root, codec: codec, logger: logging.OrNop(log)}, nil
}

// Root returns the store directory.
func (s *FileStore) Root() string { return s.root }

// Codec returns the default codec.
func (s *FileStore) Codec() Codec { return s.codec }

// Path resolves key to a file path, rejecting keys that leave the root.
func (s *FileStore) Path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if key == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.InvalidInput("invalid raster key").WithDetail("key=" + key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileStore) resolve(key string) (string, Codec, error) {
	c, ok := ForKey(key)
	if !ok {
		c, key = s.codec, key+s.codec.Extension()
	}
	p, err := s.Path(key)
	return p, c, err
}

// Open decodes the grid stored at key.
func (s *FileStore) Open(ctx context.Context, key string) (*raster.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, c, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFound("raster not found").WithDetail("key=" + key)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "open raster "+key)
	}
	defer f.Close()
	g, err := c.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "decode raster "+key)
	}
	return g, nil
}

// Put writes g atomically: it is encoded to a temporary file in the target
// directory and renamed over the destination.
func (s *FileStore) Put(ctx context.Context, id string, g *raster.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, c, err := s.resolve(id)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "create raster directory")
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(p)+"-*")
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "create temp raster")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := c.Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "close temp raster")
	}
	if err := os.Rename(tmpName, p); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "rename raster into place")
	}
	s.logger.Debug("raster written", logging.String("key", id), logging.String("path", p), logging.String("codec", c.Name()))
	return nil
}

//Personal.AI order the ending
