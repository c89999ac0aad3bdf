// Package layer names the raster layers a run consumes and resolves them to
// storage keys.
package layer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/species"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Logical layer names.
const (
	Landcover = "landcover"
	Elevation = "elevation"
)

// RegionPlaceholder in a catalogue key is replaced by the region id.
const RegionPlaceholder = "{region}"

// Required lists every layer the suitability builder reads.
func Required() []string {
	return append([]string{Landcover, Elevation}, species.ClimateVariables...)
}

// legacyFields maps the field names of older catalogue documents.
var legacyFields = map[string]string{
	"copernicus_url":      Landcover,
	"srtm_url":            Elevation,
	"worldclim_bio1_url":  species.Bio1,
	"worldclim_bio5_url":  species.Bio5,
	"worldclim_bio6_url":  species.Bio6,
	"worldclim_bio12_url": species.Bio12,
	"worldclim_bio15_url": species.Bio15,
}

// Resampling returns nearest neighbour for categorical land cover and
// bilinear for everything else.
func Resampling(name string) raster.Resampling {
	if name == Landcover {
		return raster.Nearest
	}
	return raster.Bilinear
}

// Catalog resolves a logical layer of a region to a raster key.  Unknown
// layers yield a MissingLayer AppError.
type Catalog interface {
	Resolve(ctx context.Context, region, name string) (string, error)
}

// Normalize rewrites legacy field names to logical names.  When both forms
// are present the logical name wins.  Empty values are dropped.
func Normalize(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		if logical, ok := legacyFields[strings.ToLower(k)]; ok {
			if _, set := fields[logical]; !set {
				out[logical] = v
			}
			continue
		}
		out[k] = v
	}
	return out
}

// Names returns the sorted logical names present in fields.
func Names(fields map[string]string) []string {
	out := make([]string, 0, len(fields))
	for k := range Normalize(fields) {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// StaticCatalog serves the same mapping for every region, substituting
// {region} in keys.
type StaticCatalog struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewStaticCatalog normalizes keys.
func NewStaticCatalog(keys map[string]string) *StaticCatalog {
	return &StaticCatalog{keys: Normalize(keys)}
}

// Set maps name to key.
func (c *StaticCatalog) Set(name, key string) {
	c.mu.Lock()
	c.keys[name] = key
	c.mu.Unlock()
}

// Resolve implements Catalog.
func (c *StaticCatalog) Resolve(ctx context.Context, region, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.RLock()
	key, ok := c.keys[name]
	c.mu.RUnlock()
	if !ok {
		return "", errors.MissingLayer(name)
	}
	return strings.ReplaceAll(key, RegionPlaceholder, region), nil
}

//Personal.AI order the ending
