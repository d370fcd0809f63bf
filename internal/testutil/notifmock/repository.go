package notifmock

import (
	"context"

	"gorm.io/gorm"

	"lendingportal-backend/internal/domain/notification"
)

// Repo is a function-backed mock that satisfies notification.Repository.
// With no CreateInAppFn it collects rows in memory.
type Repo struct {
	GetPreferenceFn      func(ctx context.Context, userID string, event notification.EventType) (*notification.Preference, error)
	SavePreferenceFn     func(ctx context.Context, p *notification.Preference) error
	CreateInAppFn        func(ctx context.Context, n *notification.InAppNotification) error
	ListInAppByUserFn    func(ctx context.Context, userID string, limit int) ([]notification.InAppNotification, error)
	ListActiveWebhooksFn func(ctx context.Context, event notification.EventType) ([]notification.WebhookRegistration, error)

	InApp []notification.InAppNotification
}

func (m *Repo) GetPreference(ctx context.Context, userID string, event notification.EventType) (*notification.Preference, error) {
	if m.GetPreferenceFn != nil {
		return m.GetPreferenceFn(ctx, userID, event)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) SavePreference(ctx context.Context, p *notification.Preference) error {
	if m.SavePreferenceFn != nil {
		return m.SavePreferenceFn(ctx, p)
	}
	return nil
}

func (m *Repo) CreateInApp(ctx context.Context, n *notification.InAppNotification) error {
	if m.CreateInAppFn != nil {
		return m.CreateInAppFn(ctx, n)
	}
	m.InApp = append(m.InApp, *n)
	return nil
}

func (m *Repo) ListInAppByUser(ctx context.Context, userID string, limit int) ([]notification.InAppNotification, error) {
	if m.ListInAppByUserFn != nil {
		return m.ListInAppByUserFn(ctx, userID, limit)
	}
	return m.InApp, nil
}

func (m *Repo) ListActiveWebhooks(ctx context.Context, event notification.EventType) ([]notification.WebhookRegistration, error) {
	if m.ListActiveWebhooksFn != nil {
		return m.ListActiveWebhooksFn(ctx, event)
	}
	return nil, nil
}

// Senders are the per-channel collaborators, also function-backed.

type EmailSender struct {
	SendFn func(ctx context.Context, to, subject, body string) error
	Sent   []string
}

func (m *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, body)
	}
	m.Sent = append(m.Sent, to)
	return nil
}

type SMSSender struct {
	SendFn func(ctx context.Context, to, body string) error
	Sent   []string
}

func (m *SMSSender) Send(ctx context.Context, to, body string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, body)
	}
	m.Sent = append(m.Sent, to)
	return nil
}

type WebhookPoster struct {
	PostFn func(ctx context.Context, url string, payload []byte) error
	Posted []string
}

func (m *WebhookPoster) Post(ctx context.Context, url string, payload []byte) error {
	if m.PostFn != nil {
		return m.PostFn(ctx, url, payload)
	}
	m.Posted = append(m.Posted, url)
	return nil
}
