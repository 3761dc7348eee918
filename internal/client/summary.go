package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/summary"
)

// Summary fetches the monthly totals. While the server is unreachable they
// are computed from the cached entries and people.
func (g *Gateway) Summary(ctx context.Context, year int, month time.Month) Result[summary.Summary] {
	var s summary.Summary
	path := fmt.Sprintf("/entries/summary?year=%d&month=%d", year, int(month))
	unreachable, err := g.do(ctx, http.MethodGet, path, nil, &s)
	if !unreachable {
		if err != nil {
			return Err[summary.Summary](err)
		}
		return OK(s)
	}

	cached := g.cache.Entries()
	entries := make([]models.FinanceEntry, len(cached))
	for i := range cached {
		entries[i] = cached[i].FinanceEntry
	}
	return Unreachable(summary.Monthly(entries, g.cache.People(), year, month), err)
}
