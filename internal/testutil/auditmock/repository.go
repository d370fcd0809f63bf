package auditmock

import (
	"context"

	"lendingportal-backend/internal/domain/audit"
)

// Repo is a function-backed mock that satisfies audit.Repository. With no
// AppendFn it records entries in memory for later assertions.
type Repo struct {
	AppendFn     func(ctx context.Context, e *audit.Entry) error
	ListByUserFn func(ctx context.Context, userID string, limit int) ([]audit.Entry, error)

	Appended []audit.Entry
}

func (m *Repo) Append(ctx context.Context, e *audit.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.Appended = append(m.Appended, *e)
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return m.Appended, nil
}
