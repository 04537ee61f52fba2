package weather

import (
	"context"
)

// Request is what a Source receives for one fetch.
type Request struct {
	Query   Location
	Version string
}

// Source abstracts the locationforecast endpoint. It returns the raw XML body.
type Source interface {
	Locationforecast(ctx context.Context, req Request) (string, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, req Request) (string, error)

// Locationforecast calls f.
func (f SourceFunc) Locationforecast(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
