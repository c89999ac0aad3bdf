package minio

import (
	"bytes"
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/rasterio"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// DefaultPrefix is prepended to every raster key.
const DefaultPrefix = "rasters"

// ErrObjectNotFound is the base of every missing-object error.
var ErrObjectNotFound = errors.New(errors.CodeResourceNotFound, "object not found")

// ObjectInfo is the listing entry for one stored raster.
type ObjectInfo struct {
	Key  string
	Size int64
}

// RasterRepository stores grids as objects under <prefix>/<key>.
type RasterRepository struct {
	client *Client
	codec  rasterio.Codec
	prefix string
	logger logging.Logger
}

var _ raster.Store = (*RasterRepository)(nil)

// NewRasterRepository uses codec for keys without a known extension.
func NewRasterRepository(client *Client, codec rasterio.Codec, log logging.Logger) *RasterRepository {
	if codec == nil {
		codec = rasterio.SGRD{}
	}
	return &RasterRepository{client: client, codec: codec, prefix: DefaultPrefix, logger: logging.OrNop(log)}
}

// ObjectName maps a raster key to its object name.
func (r *RasterRepository) ObjectName(key string) (string, rasterio.Codec) {
	c, ok := rasterio.ForKey(key)
	if !ok {
		c = r.codec
		key += c.Extension()
	}
	return path.Join(r.prefix, strings.TrimPrefix(key, "/")), c
}

// Open stats the object first so a missing key maps to ResourceNotFound
// before any payload is fetched.
func (r *RasterRepository) Open(ctx context.Context, key string) (*raster.Grid, error) {
	api, err := r.client.API()
	if err != nil {
		return nil, err
	}
	name, codec := r.ObjectName(key)
	if _, err := api.StatObject(ctx, r.client.Bucket(), name, minio.StatObjectOptions{}); err != nil {
		return nil, r.mapError(err, key, "stat raster")
	}
	obj, err := api.GetObject(ctx, r.client.Bucket(), name, minio.GetObjectOptions{})
	if err != nil {
		return nil, r.mapError(err, key, "get raster")
	}
	defer obj.Close()

	g, err := codec.Decode(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "decode raster "+key)
	}
	return g, nil
}

// Put overwrites the object for id.
func (r *RasterRepository) Put(ctx context.Context, id string, g *raster.Grid) error {
	api, err := r.client.API()
	if err != nil {
		return err
	}
	name, codec := r.ObjectName(id)
	data, err := rasterio.Marshal(codec, g)
	if err != nil {
		return err
	}
	opts := minio.PutObjectOptions{
		ContentType: codec.ContentType(),
		UserMetadata: map[string]string{
			"width":  strconv.Itoa(g.Width),
			"height": strconv.Itoa(g.Height),
			"crs":    g.CRS,
		},
	}
	info, err := api.PutObject(ctx, r.client.Bucket(), name, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "upload raster "+id)
	}
	r.logger.Debug("raster uploaded",
		logging.String("key", id),
		logging.String("object", name),
		logging.Int64("size", info.Size))
	return nil
}

// Exists reports whether key is stored.
func (r *RasterRepository) Exists(ctx context.Context, key string) (bool, error) {
	api, err := r.client.API()
	if err != nil {
		return false, err
	}
	name, _ := r.ObjectName(key)
	if _, err := api.StatObject(ctx, r.client.Bucket(), name, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CodeStorageError, "stat raster "+key)
	}
	return true, nil
}

// Delete removes key.  Deleting a missing key is not an error.
func (r *RasterRepository) Delete(ctx context.Context, key string) error {
	api, err := r.client.API()
	if err != nil {
		return err
	}
	name, _ := r.ObjectName(key)
	if err := api.RemoveObject(ctx, r.client.Bucket(), name, minio.RemoveObjectOptions{}); err != nil && !isNoSuchKey(err) {
		return errors.Wrap(err, errors.CodeStorageError, "delete raster "+key)
	}
	return nil
}

// List returns the rasters whose key starts with prefix, keys relative to
// the repository prefix.
func (r *RasterRepository) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	api, err := r.client.API()
	if err != nil {
		return nil, err
	}
	full := path.Join(r.prefix, prefix)
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		full += "/"
	}
	var out []ObjectInfo
	for obj := range api.ListObjects(ctx, r.client.Bucket(), minio.ListObjectsOptions{Prefix: full, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.CodeStorageError, "list rasters")
		}
		out = append(out, ObjectInfo{Key: strings.TrimPrefix(obj.Key, r.prefix+"/"), Size: obj.Size})
	}
	return out, nil
}

func (r *RasterRepository) mapError(err error, key, op string) error {
	if isNoSuchKey(err) {
		return ErrObjectNotFound.WithDetail("key=" + key).WithCause(err)
	}
	return errors.Wrap(err, errors.CodeStorageError, op+" "+key)
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}

//Personal.AI order the ending
