package limiter

import (
	"context"
	"log/slog"
	"time"

	"lendingportal-backend/internal/domain/ratelimit"
)

type Result struct {
	Allowed           bool          `json:"allowed"`
	RemainingRequests int           `json:"remaining_requests"`
	ResetAt           time.Time     `json:"reset_at"`
	CurrentCount      int           `json:"current_count"`
	RetryAfter        time.Duration `json:"-"`
}

type Usecase struct {
	repo ratelimit.Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewUsecase(repo ratelimit.Repository, log *slog.Logger) *Usecase {
	return &Usecase{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Check increments the pair's current window and compares against the
// budget. The increment is a single atomic store operation, never a
// read-then-write. If the counting store itself errors the limiter fails
// open: availability wins over strict enforcement for this safety net.
func (u *Usecase) Check(ctx context.Context, identifier, endpoint string, maxRequests int, window time.Duration) Result {
	now := u.now()

	w, err := u.repo.IncrementCurrent(ctx, identifier, endpoint, now)
	if err == ratelimit.ErrNoActiveWindow {
		w, err = u.repo.StartWindow(ctx, identifier, endpoint, now, now.Add(window))
		if err == ratelimit.ErrNoActiveWindow {
			// lost the start race to a concurrent request
			w, err = u.repo.IncrementCurrent(ctx, identifier, endpoint, now)
		}
	}
	if err != nil {
		u.log.Error("rate limiter store failure, failing open",
			"identifier", identifier, "endpoint", endpoint, "error", err)
		return Result{Allowed: true, RemainingRequests: maxRequests, ResetAt: now.Add(window)}
	}

	res := Result{
		CurrentCount: w.RequestCount,
		ResetAt:      w.WindowEnd,
	}
	if w.RequestCount > maxRequests {
		if err := u.repo.Block(ctx, w.ID, w.WindowEnd); err != nil {
			u.log.Error("rate limiter block update failed", "error", err)
		}
		res.Allowed = false
		res.RemainingRequests = 0
		if ra := w.WindowEnd.Sub(now); ra > 0 {
			res.RetryAfter = ra
		} else {
			res.RetryAfter = time.Second
		}
		return res
	}
	res.Allowed = true
	res.RemainingRequests = maxRequests - w.RequestCount
	return res
}
