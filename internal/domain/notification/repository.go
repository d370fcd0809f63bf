package notification

import "context"

type Repository interface {
	GetPreference(ctx context.Context, userID string, event EventType) (*Preference, error)
	SavePreference(ctx context.Context, p *Preference) error
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID string, limit int) ([]InAppNotification, error)
	ListActiveWebhooks(ctx context.Context, event EventType) ([]WebhookRegistration, error)
}

// Channel sender collaborators. Implementations live in infrastructure.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type WebhookPoster interface {
	Post(ctx context.Context, url string, payload []byte) error
}
