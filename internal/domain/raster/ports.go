package raster

import "context"

// Source opens stored rasters by key.  Implementations return a
// ResourceNotFound AppError when the key does not exist.
type Source interface {
	Open(ctx context.Context, key string) (*Grid, error)
}

// Sink persists grids.  Put is idempotent: writing the same id twice leaves
// a single object holding the latest grid.
type Sink interface {
	Put(ctx context.Context, id string, g *Grid) error
}

// Store is both a Source and a Sink.
type Store interface {
	Source
	Sink
}

//Personal.AI order the ending
