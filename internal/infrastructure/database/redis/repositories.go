package redis

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/layer"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/region"
	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/run"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Document key layout.
const (
	regionKeyPrefix     = "regions/"
	layerKeyPrefix      = "layers/"
	simulationKeyPrefix = "simulation/"
	stepsKeySuffix      = "/steps"
)

func regionKey(id string) string { return regionKeyPrefix + id }
func layerKey(region string) string { return layerKeyPrefix + region }
func runKey(region string) string { return simulationKeyPrefix + region }
func stepsKey(region string) string { return simulationKeyPrefix + region + stepsKeySuffix }

// RegionRepository reads region documents {name, points:[{latitude, longitude}]}.
type RegionRepository struct {
	store *DocumentStore
}

var _ region.Repository = (*RegionRepository)(nil)

func NewRegionRepository(store *DocumentStore) *RegionRepository {
	return &RegionRepository{store: store}
}

// GetPolygon implements region.Repository.
func (r *RegionRepository) GetPolygon(ctx context.Context, id string) (*region.Polygon, error) {
	var doc region.Document
	if err := r.store.Get(ctx, regionKey(id), &doc); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("region not found").WithDetail("id=" + id)
		}
		return nil, err
	}
	return doc.Polygon()
}

// Put stores doc under id.
func (r *RegionRepository) Put(ctx context.Context, id string, doc region.Document) error {
	if _, err := doc.Polygon(); err != nil {
		return err
	}
	return r.store.Set(ctx, regionKey(id), doc)
}

// LayerCatalog resolves layers from the per-region catalogue document.
// Layers the document does not name, or regions without a document, fall
// through to fallback when one is set.
type LayerCatalog struct {
	store    *DocumentStore
	fallback layer.Catalog
}

var _ layer.Catalog = (*LayerCatalog)(nil)

func NewLayerCatalog(store *DocumentStore, fallback layer.Catalog) *LayerCatalog {
	return &LayerCatalog{store: store, fallback: fallback}
}

// Resolve implements layer.Catalog.
func (c *LayerCatalog) Resolve(ctx context.Context, regionID, name string) (string, error) {
	keys, err := c.Keys(ctx, regionID)
	if err != nil && !errors.IsNotFound(err) {
		return "", err
	}
	if key, ok := keys[name]; ok {
		return key, nil
	}
	if c.fallback != nil {
		return c.fallback.Resolve(ctx, regionID, name)
	}
	return "", errors.MissingLayer(name).WithDetailf("layer=%s region=%s", name, regionID)
}

// Keys returns the region's normalized catalogue.
func (c *LayerCatalog) Keys(ctx context.Context, regionID string) (map[string]string, error) {
	fields, err := c.store.Fields(ctx, layerKey(regionID))
	if err != nil {
		return nil, err
	}
	plain := make(map[string]string, len(fields))
	for k, v := range fields {
		plain[k] = fieldString(v)
	}
	return layer.Normalize(plain), nil
}

// Put replaces the region's catalogue.
func (c *LayerCatalog) Put(ctx context.Context, regionID string, keys map[string]string) error {
	return c.store.Set(ctx, layerKey(regionID), layer.Normalize(keys))
}

// RunRepository stores run status documents at simulation/{region} and the
// step records of the current run in the list simulation/{region}/steps.
type RunRepository struct {
	store *DocumentStore
}

var _ run.Repository = (*RunRepository)(nil)

func NewRunRepository(store *DocumentStore) *RunRepository {
	return &RunRepository{store: store}
}

// Save implements run.Repository.
func (r *RunRepository) Save(ctx context.Context, rec *run.Record) error {
	prev, err := r.Get(ctx, rec.Region)
	switch {
	case err == nil && prev.RunID != rec.RunID, errors.IsNotFound(err):
		if err := r.store.Delete(ctx, stepsKey(rec.Region)); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return r.store.Set(ctx, runKey(rec.Region), rec)
}

// Get implements run.Repository.
func (r *RunRepository) Get(ctx context.Context, regionID string) (*run.Record, error) {
	var rec run.Record
	if err := r.store.Get(ctx, runKey(regionID), &rec); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("simulation record not found").WithDetail("region=" + regionID)
		}
		return nil, err
	}
	return &rec, nil
}

// AppendStep implements run.Repository.
func (r *RunRepository) AppendStep(ctx context.Context, regionID string, s run.StepRecord) error {
	data, err := json.Marshal(s)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	c := r.store.Client()
	if err := c.RPush(ctx, c.Key(stepsKey(regionID)), string(data)).Err(); err != nil {
		return mapCommandError(err, "append step record")
	}
	return nil
}

// Steps implements run.Repository.
func (r *RunRepository) Steps(ctx context.Context, regionID string) ([]run.StepRecord, error) {
	c := r.store.Client()
	items, err := c.LRange(ctx, c.Key(stepsKey(regionID)), 0, -1).Result()
	if err != nil {
		return nil, mapCommandError(err, "read step records")
	}
	out := make([]run.StepRecord, 0, len(items))
	for _, it := range items {
		var s run.StepRecord
		if err := json.Unmarshal([]byte(it), &s); err != nil {
			return nil, ErrSerializationFailed.WithDetail("region=" + regionID).WithCause(err)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

//Personal.AI order the ending
