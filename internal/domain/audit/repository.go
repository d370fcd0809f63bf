package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
