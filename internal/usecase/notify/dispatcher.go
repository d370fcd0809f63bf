package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lendingportal-backend/internal/domain/notification"
	"lendingportal-backend/internal/domain/user"

	"gorm.io/gorm"
)

const dispatchTimeout = 10 * time.Second

// TemplateData carries event-specific values (application number, amount,
// payment, rate, term) into channel messages and webhook payloads.
type TemplateData map[string]any

// WebhookReport aggregates per-target outcomes; failures are collected,
// never thrown.
type WebhookReport struct {
	Attempted int               `json:"attempted"`
	Delivered int               `json:"delivered"`
	Failures  map[string]string `json:"failures,omitempty"`
}

type Dispatcher struct {
	repo  notification.Repository
	users user.Repository
	email notification.EmailSender
	sms   notification.SMSSender
	hooks notification.WebhookPoster
	log   *slog.Logger
}

func NewDispatcher(
	repo notification.Repository,
	users user.Repository,
	email notification.EmailSender,
	sms notification.SMSSender,
	hooks notification.WebhookPoster,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{repo: repo, users: users, email: email, sms: sms, hooks: hooks, log: log}
}

// Dispatch fans one event out to the recipient's enabled channels plus any
// event-matching webhook registrations. Each channel attempt is independent.
// Errors are reported in the returned attempts, never as a function error.
func (d *Dispatcher) Dispatch(ctx context.Context, event notification.EventType, recipientID string, data TemplateData) []notification.DeliveryAttempt {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	pref := d.preference(ctx, recipientID, event)
	subject, body := renderMessage(event, data)

	var attempts []notification.DeliveryAttempt

	rec, err := d.users.GetByUserID(ctx, recipientID)
	if err != nil {
		d.log.Error("notification recipient lookup failed", "user_id", recipientID, "error", err)
		rec = &user.User{UserID: recipientID}
	}

	if pref.Email {
		a := notification.DeliveryAttempt{Channel: notification.ChannelEmail, Target: rec.Email, OK: true}
		if rec.Email == "" {
			a.OK, a.Error = false, "recipient has no email address"
		} else if err := d.email.Send(ctx, rec.Email, subject, body); err != nil {
			a.OK, a.Error = false, err.Error()
		}
		attempts = append(attempts, a)
	}
	if pref.SMS {
		a := notification.DeliveryAttempt{Channel: notification.ChannelSMS, Target: rec.Phone, OK: true}
		if rec.Phone == "" {
			a.OK, a.Error = false, "recipient has no phone number"
		} else if err := d.sms.Send(ctx, rec.Phone, body); err != nil {
			a.OK, a.Error = false, err.Error()
		}
		attempts = append(attempts, a)
	}
	if pref.InApp {
		a := notification.DeliveryAttempt{Channel: notification.ChannelInApp, Target: recipientID, OK: true}
		row := &notification.InAppNotification{
			UserID:    recipientID,
			EventType: event,
			Title:     subject,
			Body:      body,
			Data:      data,
			ActionURL: actionURL(event, data),
		}
		if err := d.repo.CreateInApp(ctx, row); err != nil {
			a.OK, a.Error = false, err.Error()
		}
		attempts = append(attempts, a)
	}

	for _, a := range attempts {
		if !a.OK {
			d.log.Warn("notification channel delivery failed",
				"event", event, "channel", a.Channel, "user_id", recipientID, "error", a.Error)
		}
	}

	if notification.ExternalEvents[event] {
		report := d.Broadcast(ctx, event, data)
		if len(report.Failures) > 0 {
			d.log.Warn("webhook broadcast had failures", "event", event, "failures", report.Failures)
		}
	}
	return attempts
}

// Broadcast posts the event to every active, event-matching webhook
// registration and reports outcomes in aggregate.
func (d *Dispatcher) Broadcast(ctx context.Context, event notification.EventType, data TemplateData) WebhookReport {
	report := WebhookReport{Failures: map[string]string{}}
	hooks, err := d.repo.ListActiveWebhooks(ctx, event)
	if err != nil {
		d.log.Error("webhook registration lookup failed", "event", event, "error", err)
		return report
	}
	for _, h := range hooks {
		report.Attempted++
		payload := formatPayload(h.Platform, event, data)
		if err := d.hooks.Post(ctx, h.URL, payload); err != nil {
			report.Failures[h.URL] = err.Error()
			continue
		}
		report.Delivered++
	}
	if len(report.Failures) == 0 {
		report.Failures = nil
	}
	return report
}

// preference returns the user's saved preference or the per-event default.
// A store failure also falls back to defaults; preference lookups must not
// block delivery.
func (d *Dispatcher) preference(ctx context.Context, userID string, event notification.EventType) notification.Preference {
	p, err := d.repo.GetPreference(ctx, userID, event)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			d.log.Error("preference lookup failed, using defaults", "user_id", userID, "error", err)
		}
		return notification.DefaultPreference(userID, event)
	}
	return *p
}

func renderMessage(event notification.EventType, data TemplateData) (subject, body string) {
	num, _ := data["application_number"].(string)
	switch event {
	case notification.EventApplicationSubmitted:
		return "Application received",
			fmt.Sprintf("Your loan application %s has been received and is being processed.", num)
	case notification.EventApplicationApproved:
		return "Application approved",
			fmt.Sprintf("Congratulations, your loan application %s has been approved.", num)
	case notification.EventApplicationRejected:
		return "Application decision",
			fmt.Sprintf("A decision has been made on your loan application %s.", num)
	case notification.EventLoanFunded:
		return "Loan funded",
			fmt.Sprintf("Your loan %s has been funded. Monthly payment: %v at %v%% over %v months.",
				num, data["monthly_payment"], data["annual_rate_percent"], data["term_months"])
	default:
		return "Application update",
			fmt.Sprintf("The status of your loan application %s has changed to %v.", num, data["status"])
	}
}

func actionURL(event notification.EventType, data TemplateData) string {
	id, _ := data["application_id"].(string)
	if id == "" {
		return ""
	}
	if event == notification.EventLoanFunded {
		return "/loans?application=" + id
	}
	return "/applications/" + id
}

// Two known wire shapes: Slack-style text messages and a generic
// event envelope.
func formatPayload(platform notification.Platform, event notification.EventType, data TemplateData) []byte {
	subject, body := renderMessage(event, data)
	var payload any
	switch platform {
	case notification.PlatformSlack:
		payload = map[string]any{"text": fmt.Sprintf("*%s*: %s", subject, body)}
	default:
		payload = map[string]any{
			"event":     string(event),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"data":      data,
		}
	}
	b, _ := json.Marshal(payload)
	return b
}
