package store

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/dci/table"
)

func (s *Store) batchLimit() int {
	if n := s.opts.controller.Config().MaxWorkers; n > 0 {
		return int(n)
	}
	return runtime.GOMAXPROCS(0)
}

// SaveAll saves every table of tables concurrently. The first failure
// cancels the remaining saves; tables already written stay.
func (s *Store) SaveAll(ctx context.Context, tables map[string]*table.Table) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit())
	for name, t := range tables {
		g.Go(func() error {
			return s.Save(ctx, name, t)
		})
	}
	err := g.Wait()
	s.opts.logger.LogBatch(ctx, "save", len(tables), err)
	return err
}

// LoadAll loads the named tables concurrently. It returns no tables if any
// load fails.
func (s *Store) LoadAll(ctx context.Context, names []string, optFns ...table.Option) (map[string]*table.Table, error) {
	var (
		mu     sync.Mutex
		tables = make(map[string]*table.Table, len(names))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit())
	for _, name := range names {
		g.Go(func() error {
			t, err := s.Load(gctx, name, optFns...)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[name] = t
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	s.opts.logger.LogBatch(ctx, "load", len(names), err)
	if err != nil {
		return nil, err
	}
	return tables, nil
}
