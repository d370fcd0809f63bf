package ratelimit

import (
	"context"
	"time"
)

type Repository interface {
	// IncrementCurrent bumps the active window for the pair with a single
	// conditional UPDATE and returns the post-increment row. Returns
	// ErrNoActiveWindow when the pair has no window covering now.
	IncrementCurrent(ctx context.Context, identifier, endpoint string, now time.Time) (*Window, error)
	// StartWindow resets (or inserts) the pair's row for a fresh interval
	// with a count of 1.
	StartWindow(ctx context.Context, identifier, endpoint string, start, end time.Time) (*Window, error)
	// Block records when the pair becomes eligible again.
	Block(ctx context.Context, id uint64, until time.Time) error
}
