package loader

import (
	"context"
	"time"

	"salesdash/domain/dataset"
	"salesdash/internal"
	"salesdash/internal/errors"
)

// DatasetLoader is what views depend on
type DatasetLoader interface {
	Load(ctx context.Context, ref string) (dataset.Dataset, error)
}

// Loader turns raw resources into datasets
type Loader struct {
	source Source
	logger *internal.Logger
}

// New creates a loader over source
func New(source Source) *Loader {
	return &Loader{
		source: source,
		logger: internal.DefaultLogger.For("DatasetLoader"),
	}
}

// Load performs exactly one read of ref. Any failure, whether transport,
// status, missing file or unparseable body, is returned as a LoadFailure and
// never as a panic.
func (l *Loader) Load(ctx context.Context, ref string) (ds dataset.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("load %s panicked: %v", ref, r)
			ds, err = dataset.Dataset{}, errors.LoadFailure(ref, nil)
		}
	}()

	start := time.Now()
	body, err := l.source.Fetch(ctx, ref)
	if err != nil {
		l.logger.Warn("load %s from %s failed: %v", ref, l.source, err)
		return dataset.Dataset{}, errors.LoadFailure(ref, err)
	}

	ds, err = dataset.Parse(ref, body)
	if err != nil {
		l.logger.Warn("parse %s failed: %v", ref, err)
		return dataset.Dataset{}, errors.LoadFailure(ref, err)
	}

	l.logger.Debug("loaded %s (%s, %d bytes) in %v", ref, ds.Shape(), len(body), time.Since(start))
	return ds, nil
}
