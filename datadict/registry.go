// Package datadict builds and caches a data dictionary describing the
// columns of a fixed set of tabular datasets.
//
// The dictionary is built on first use and then served from memory. A build
// either covers every dataset or is discarded, so a failed build is retried
// on the next request.
package datadict

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/singleflight"

	"github.com/priyank1574q/agent-vinod/metrics"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

// Query selects a fragment of the dictionary. Column requires Table.
type Query struct {
	Table  string
	Column string
}

// Registry serves the data dictionary for a set of datasets.
type Registry struct {
	datasets []Dataset
	catalog  Catalog
	logger   hclog.Logger
	metrics  *metrics.Metrics

	group singleflight.Group
	cache atomic.Pointer[Dictionary]
	reads atomic.Int64
}

// Option customizes a Registry.
type Option func(*Registry)

// WithCatalog replaces the built-in column catalog.
func WithCatalog(c Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(r *Registry) { r.logger = l.Named("datadict") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates a registry over datasets. Nothing is read until first use.
func New(datasets []Dataset, opts ...Option) *Registry {
	r := &Registry{
		datasets: append([]Dataset(nil), datasets...),
		logger:   hclog.NewNullLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.catalog == nil {
		r.catalog = DefaultCatalog()
	}
	return r
}

var (
	sharedOnce sync.Once
	shared     *Registry
)

// Shared returns the process-wide registry. The first call decides its
// datasets and options; later arguments are ignored.
func Shared(datasets []Dataset, opts ...Option) *Registry {
	sharedOnce.Do(func() {
		shared = New(datasets, opts...)
	})
	return shared
}

// Datasets returns the datasets the registry covers.
func (r *Registry) Datasets() []Dataset {
	return append([]Dataset(nil), r.datasets...)
}

// Reads returns the number of dataset files read so far.
func (r *Registry) Reads() int64 { return r.reads.Load() }

// Invalidate drops the cached dictionary so the next request rebuilds it.
func (r *Registry) Invalidate() {
	r.cache.Store(nil)
}

// Dictionary returns the full dictionary, building it on first use.
// Concurrent first callers share a single build, which runs to completion
// even if the caller that started it gives up. A caller whose ctx ends first
// gets ctx.Err().
func (r *Registry) Dictionary(ctx context.Context) (*Dictionary, error) {
	if d := r.cache.Load(); d != nil {
		return d, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := r.group.DoChan("build", func() (any, error) {
		if d := r.cache.Load(); d != nil {
			return d, nil
		}
		d, err := r.build()
		if err != nil {
			r.metrics.ObserveDictBuild("error")
			return nil, err
		}
		r.cache.Store(d)
		r.metrics.ObserveDictBuild("ok")
		return d, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dictionary), nil
	}
}

func (r *Registry) build() (*Dictionary, error) {
	r.logger.Info("generating data dictionary", "datasets", len(r.datasets))
	frames := make([]*frame, len(r.datasets))
	for i, ds := range r.datasets {
		f, err := readDataset(ds)
		if err != nil {
			r.logger.Warn("dataset read failed", "dataset", ds.Name, "path", ds.Path, "error", err)
			return nil, err
		}
		r.reads.Add(1)
		r.metrics.IncDatasetReads()
		frames[i] = f
	}

	d := orderedmap.New[string, *Table]()
	for i, ds := range r.datasets {
		d.Set(ds.Name, profileTable(ds.Name, frames[i], r.catalog))
	}
	return d, nil
}

// Get returns the fragment q selects: a Column, a *Table or the whole
// *Dictionary.
func (r *Registry) Get(ctx context.Context, q Query) (any, error) {
	if q.Column != "" && q.Table == "" {
		return nil, toolerr.New(toolerr.KindInvalidRequest, "'column_name' requires 'table_name'.")
	}
	d, err := r.Dictionary(ctx)
	if err != nil {
		return nil, err
	}
	if q.Table == "" {
		return d, nil
	}

	t, ok := d.Get(q.Table)
	if q.Column == "" {
		if !ok {
			return nil, toolerr.New(toolerr.KindNotFound, "Table '%s' not found.", q.Table)
		}
		return t, nil
	}
	if ok {
		if c, ok := t.Get(q.Column); ok {
			return c, nil
		}
	}
	return nil, toolerr.New(toolerr.KindNotFound, "Column '%s' or table '%s' not found.", q.Column, q.Table)
}
