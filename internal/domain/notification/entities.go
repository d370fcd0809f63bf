package notification

import "time"

type EventType string

const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationApproved  EventType = "application_approved"
	EventApplicationRejected  EventType = "application_rejected"
	EventStatusChanged        EventType = "status_changed"
	EventLoanFunded           EventType = "loan_funded"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
	ChannelSMS   Channel = "sms"
)

// ExternalEvents also fan out to registered webhooks.
var ExternalEvents = map[EventType]bool{
	EventLoanFunded:           true,
	EventApplicationSubmitted: true,
	EventApplicationApproved:  true,
}

type Preference struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:32;uniqueIndex:ux_notification_prefs,priority:1;not null" json:"user_id"`
	EventType EventType `gorm:"size:40;uniqueIndex:ux_notification_prefs,priority:2;not null" json:"event_type"`
	Email     bool      `json:"email"`
	InApp     bool      `json:"in_app"`
	SMS       bool      `json:"sms"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Preference) TableName() string { return "notification_preferences" }

// DefaultPreference returns the per-event defaults used when a user has
// never saved one. Approval and funding default to all three channels,
// everything else to email plus in-app.
func DefaultPreference(userID string, e EventType) Preference {
	p := Preference{UserID: userID, EventType: e, Email: true, InApp: true}
	if e == EventApplicationApproved || e == EventLoanFunded {
		p.SMS = true
	}
	return p
}

// InAppNotification is the pollable row a recipient's client reads.
type InAppNotification struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID    string         `gorm:"size:32;index:idx_in_app_user;not null" json:"user_id"`
	EventType EventType      `gorm:"size:40;not null" json:"event_type"`
	Title     string         `gorm:"size:200" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Data      map[string]any `gorm:"serializer:json;type:json" json:"data"`
	ActionURL string         `gorm:"size:500" json:"action_url"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (InAppNotification) TableName() string { return "in_app_notifications" }

type Platform string

const (
	PlatformSlack   Platform = "slack"
	PlatformGeneric Platform = "generic"
)

type WebhookRegistration struct {
	ID         uint64      `gorm:"primaryKey;column:id" json:"-"`
	URL        string      `gorm:"size:500;not null" json:"url"`
	Platform   Platform    `gorm:"size:20;default:'generic'" json:"platform"`
	EventTypes []EventType `gorm:"serializer:json;type:json" json:"event_types"`
	Active     bool        `gorm:"index:idx_webhooks_active" json:"active"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (WebhookRegistration) TableName() string { return "webhook_registrations" }

// Matches reports whether the registration subscribes to the event.
func (w WebhookRegistration) Matches(e EventType) bool {
	for _, t := range w.EventTypes {
		if t == e {
			return true
		}
	}
	return false
}

// DeliveryAttempt is the per-channel outcome returned by the dispatcher.
// Attempts are independent; one channel failing never blocks another.
type DeliveryAttempt struct {
	Channel Channel `json:"channel"`
	Target  string  `json:"target"`
	OK      bool    `json:"ok"`
	Error   string  `json:"error,omitempty"`
}
