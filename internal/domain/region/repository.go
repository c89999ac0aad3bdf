package region

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Repository resolves region identifiers to polygons.  Unknown ids yield a
// ResourceNotFound AppError.
type Repository interface {
	GetPolygon(ctx context.Context, id string) (*Polygon, error)
}

// Document is the stored form of a region: an ordered vertex list.
type Document struct {
	Name   string   `json:"name,omitempty"`
	Points []LatLon `json:"points"`
}

// Polygon validates the document's vertices.
func (d *Document) Polygon() (*Polygon, error) {
	return FromLatLon(d.Points)
}

// DecodeDocument parses a JSON region document.
func DecodeDocument(data []byte) (*Polygon, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "decode region document")
	}
	return doc.Polygon()
}

// StaticRepository is an in-memory Repository.
type StaticRepository struct {
	mu      sync.RWMutex
	regions map[string]*Polygon
}

// NewStaticRepository returns an empty repository.
func NewStaticRepository() *StaticRepository {
	return &StaticRepository{regions: make(map[string]*Polygon)}
}

// Put stores p under id, replacing any previous entry.
func (r *StaticRepository) Put(id string, p *Polygon) {
	r.mu.Lock()
	r.regions[id] = p
	r.mu.Unlock()
}

// GetPolygon implements Repository.
func (r *StaticRepository) GetPolygon(ctx context.Context, id string) (*Polygon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	p, ok := r.regions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("region not found").WithDetail("id=" + id)
	}
	return p, nil
}

//Personal.AI order the ending
