package ratelimitmock

import (
	"context"
	"time"

	"lendingportal-backend/internal/domain/ratelimit"
)

// Repo is a function-backed mock that satisfies ratelimit.Repository.
type Repo struct {
	IncrementCurrentFn func(ctx context.Context, identifier, endpoint string, now time.Time) (*ratelimit.Window, error)
	StartWindowFn      func(ctx context.Context, identifier, endpoint string, start, end time.Time) (*ratelimit.Window, error)
	BlockFn            func(ctx context.Context, id uint64, until time.Time) error
}

func (m *Repo) IncrementCurrent(ctx context.Context, identifier, endpoint string, now time.Time) (*ratelimit.Window, error) {
	if m.IncrementCurrentFn != nil {
		return m.IncrementCurrentFn(ctx, identifier, endpoint, now)
	}
	return nil, ratelimit.ErrNoActiveWindow
}

func (m *Repo) StartWindow(ctx context.Context, identifier, endpoint string, start, end time.Time) (*ratelimit.Window, error) {
	if m.StartWindowFn != nil {
		return m.StartWindowFn(ctx, identifier, endpoint, start, end)
	}
	return &ratelimit.Window{Identifier: identifier, Endpoint: endpoint, RequestCount: 1, WindowStart: start, WindowEnd: end}, nil
}

func (m *Repo) Block(ctx context.Context, id uint64, until time.Time) error {
	if m.BlockFn != nil {
		return m.BlockFn(ctx, id, until)
	}
	return nil
}
