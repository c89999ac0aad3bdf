// Package rasterio encodes grids to bytes and stores them on the local
// filesystem.  Codecs are single-band; the object-storage store lives in
// storage/minio and shares these codecs.
package rasterio

import (
	"bytes"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Codec converts between grids and a serialized format.
type Codec interface {
	// Name is the registry key, e.g. "sgrd".
	Name() string
	// Extension includes the leading dot.
	Extension() string
	ContentType() string
	Encode(w io.Writer, g *raster.Grid) error
	Decode(r io.Reader) (*raster.Grid, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{}
)

// Register adds c to the registry, replacing any codec of the same name.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(c.Name())] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if c, ok := registry[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeRasterUnsupported, "unknown raster codec").WithDetail("codec=" + name)
}

// ForKey picks the codec whose extension matches key.
func ForKey(key string) (Codec, bool) {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" {
		return nil, false
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, c := range registry {
		if c.Extension() == ext {
			return c, true
		}
	}
	return nil, false
}

// Names lists registered codecs in order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// WithExtension appends c's extension unless key already carries a known one.
func WithExtension(key string, c Codec) string {
	if _, ok := ForKey(key); ok {
		return key
	}
	return key + c.Extension()
}

// Marshal encodes g into memory.
func Marshal(c Codec, g *raster.Grid) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data.
func Unmarshal(c Codec, data []byte) (*raster.Grid, error) {
	return c.Decode(bytes.NewReader(data))
}

func init() {
	Register(SGRD{})
	Register(ASCII{})
}

//Personal.AI order the ending
