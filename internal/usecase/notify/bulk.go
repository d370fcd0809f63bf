package notify

import (
	"context"
	"log/slog"

	"lendingportal-backend/internal/domain/notification"
)

// SendJob is one queued per-recipient delivery, consumed by the
// notification worker.
type SendJob struct {
	RecipientID string                 `json:"recipient_id"`
	Event       notification.EventType `json:"event"`
	Data        TemplateData           `json:"data"`
}

type QueuePublisher interface {
	PublishSendJob(ctx context.Context, job SendJob) error
}

// BulkSender enqueues one job per recipient instead of dispatching inline,
// so a large send cannot stall the request path.
type BulkSender struct {
	queue QueuePublisher
	log   *slog.Logger
}

func NewBulkSender(queue QueuePublisher, log *slog.Logger) *BulkSender {
	return &BulkSender{queue: queue, log: log}
}

// Enqueue publishes a job per recipient and returns how many were queued.
// Individual publish failures are logged and skipped; the send continues
// for the remaining recipients.
func (b *BulkSender) Enqueue(ctx context.Context, recipients []string, event notification.EventType, data TemplateData) int {
	queued := 0
	for _, r := range recipients {
		job := SendJob{RecipientID: r, Event: event, Data: data}
		if err := b.queue.PublishSendJob(ctx, job); err != nil {
			b.log.Error("bulk send enqueue failed", "recipient", r, "event", event, "error", err)
			continue
		}
		queued++
	}
	return queued
}
