package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/logger"
)

// SyncReport summarizes a Sync run.
type SyncReport struct {
	People  int
	Entries int
}

// Sync reloads people and entries from the server once it is reachable
// again. The server copy replaces the cache, so records created while
// offline and never sent are discarded.
func (g *Gateway) Sync(ctx context.Context) Result[SyncReport] {
	if !g.ForceHealthCheck(ctx) {
		if err := ctx.Err(); err != nil {
			return Err[SyncReport](err)
		}
		return Unreachable(SyncReport{}, &UnreachableError{Err: errServerDown})
	}

	var report SyncReport
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res := g.People(egCtx)
		if !res.Success() {
			return res.Error()
		}
		if res.IsOffline() {
			return res.Cause()
		}
		report.People = len(res.Data())
		return nil
	})
	eg.Go(func() error {
		res := g.Entries(egCtx)
		if !res.Success() {
			return res.Error()
		}
		if res.IsOffline() {
			return res.Cause()
		}
		report.Entries = len(res.Data())
		return nil
	})
	if err := eg.Wait(); err != nil {
		if g.IsOffline() {
			return Unreachable(report, err)
		}
		return Err[SyncReport](err)
	}

	logger.Get().Infow("synchronized with server", "people", report.People, "entries", report.Entries)
	return OK(report)
}
