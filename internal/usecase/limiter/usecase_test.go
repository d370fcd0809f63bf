package limiter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"lendingportal-backend/internal/domain/ratelimit"
	"lendingportal-backend/internal/testutil/ratelimitmock"
)

func newTestUsecase(repo ratelimit.Repository, at time.Time) *Usecase {
	u := NewUsecase(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	u.now = func() time.Time { return at }
	return u
}

func TestCheck_AllowedUnderBudget(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := now.Add(time.Minute)
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return &ratelimit.Window{ID: 1, RequestCount: 5, WindowEnd: end}, nil
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if !res.Allowed {
		t.Fatalf("5 of 10 must be allowed")
	}
	if res.RemainingRequests != 5 {
		t.Fatalf("remaining = %d, want 5", res.RemainingRequests)
	}
	if !res.ResetAt.Equal(end) {
		t.Fatalf("reset = %v, want %v", res.ResetAt, end)
	}
}

func TestCheck_BoundaryExactlyAtMax(t *testing.T) {
	now := time.Now().UTC()
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return &ratelimit.Window{ID: 1, RequestCount: 10, WindowEnd: now.Add(time.Minute)}, nil
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if !res.Allowed {
		t.Fatalf("request number max must still be allowed")
	}
	if res.RemainingRequests != 0 {
		t.Fatalf("remaining = %d, want 0", res.RemainingRequests)
	}
}

func TestCheck_RejectedOverMax(t *testing.T) {
	now := time.Now().UTC()
	end := now.Add(30 * time.Second)
	var blockedID uint64
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return &ratelimit.Window{ID: 7, RequestCount: 11, WindowEnd: end}, nil
		},
		BlockFn: func(ctx context.Context, id uint64, until time.Time) error {
			blockedID = id
			return nil
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if res.Allowed {
		t.Fatalf("max+1 must be rejected")
	}
	if res.RemainingRequests != 0 {
		t.Fatalf("remaining = %d, want 0", res.RemainingRequests)
	}
	if res.RetryAfter != 30*time.Second {
		t.Fatalf("retry after = %v, want 30s", res.RetryAfter)
	}
	if blockedID != 7 {
		t.Fatalf("block not recorded for window 7")
	}
}

func TestCheck_StartsFreshWindow(t *testing.T) {
	now := time.Now().UTC()
	var started bool
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return nil, ratelimit.ErrNoActiveWindow
		},
		StartWindowFn: func(ctx context.Context, id, ep string, start, end time.Time) (*ratelimit.Window, error) {
			started = true
			if got := end.Sub(start); got != time.Minute {
				t.Fatalf("window length = %v, want 1m", got)
			}
			return &ratelimit.Window{ID: 2, RequestCount: 1, WindowStart: start, WindowEnd: end}, nil
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "validate", 30, time.Minute)
	if !started {
		t.Fatalf("expected StartWindow after ErrNoActiveWindow")
	}
	if !res.Allowed || res.CurrentCount != 1 {
		t.Fatalf("fresh window must count 1 and allow: %+v", res)
	}
	if res.RemainingRequests != 29 {
		t.Fatalf("remaining = %d, want 29", res.RemainingRequests)
	}
}

func TestCheck_StartRaceFallsBackToIncrement(t *testing.T) {
	now := time.Now().UTC()
	incCalls := 0
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			incCalls++
			if incCalls == 1 {
				return nil, ratelimit.ErrNoActiveWindow
			}
			return &ratelimit.Window{ID: 3, RequestCount: 2, WindowEnd: now.Add(time.Minute)}, nil
		},
		StartWindowFn: func(ctx context.Context, id, ep string, start, end time.Time) (*ratelimit.Window, error) {
			// a concurrent request inserted the row first
			return nil, ratelimit.ErrNoActiveWindow
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if incCalls != 2 {
		t.Fatalf("increment calls = %d, want 2 (retry after lost race)", incCalls)
	}
	if !res.Allowed || res.CurrentCount != 2 {
		t.Fatalf("lost race still counts through the winner's row: %+v", res)
	}
}

func TestCheck_FailsOpenOnStoreError(t *testing.T) {
	now := time.Now().UTC()
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return nil, errors.New("mysql gone away")
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if !res.Allowed {
		t.Fatalf("store failure must fail open")
	}
	if res.RemainingRequests != 10 {
		t.Fatalf("fail-open remaining = %d, want full budget", res.RemainingRequests)
	}
}

func TestCheck_BlockErrorStillRejects(t *testing.T) {
	now := time.Now().UTC()
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			return &ratelimit.Window{ID: 9, RequestCount: 99, WindowEnd: now.Add(time.Minute)}, nil
		},
		BlockFn: func(ctx context.Context, id uint64, until time.Time) error {
			return errors.New("write failed")
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if res.Allowed {
		t.Fatalf("block bookkeeping failure must not grant the request")
	}
}

func TestCheck_ExpiredWindowRetryAfterFloor(t *testing.T) {
	now := time.Now().UTC()
	repo := &ratelimitmock.Repo{
		IncrementCurrentFn: func(ctx context.Context, id, ep string, n time.Time) (*ratelimit.Window, error) {
			// window end already behind now
			return &ratelimit.Window{ID: 4, RequestCount: 11, WindowEnd: now.Add(-time.Second)}, nil
		},
	}

	res := newTestUsecase(repo, now).Check(context.Background(), "u1", "submit", 10, time.Minute)
	if res.Allowed {
		t.Fatalf("over budget must reject")
	}
	if res.RetryAfter != time.Second {
		t.Fatalf("retry after floor = %v, want 1s", res.RetryAfter)
	}
}
