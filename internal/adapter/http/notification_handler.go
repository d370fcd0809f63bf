package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"lendingportal-backend/internal/domain/audit"
	"lendingportal-backend/internal/domain/notification"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/notify"

	mw "lendingportal-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	dispatcher *notify.Dispatcher
	bulk       *notify.BulkSender
	repo       notification.Repository
	gate       *authz.Gate
	auditor    *auditlog.Recorder
	log        *slog.Logger
}

func NewNotificationHandler(d *notify.Dispatcher, b *notify.BulkSender, repo notification.Repository, gate *authz.Gate, auditor *auditlog.Recorder, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{dispatcher: d, bulk: b, repo: repo, gate: gate, auditor: auditor, log: log}
}

type sendReq struct {
	RecipientID string              `json:"recipient_id" validate:"required,hex32"`
	Event       string              `json:"event"        validate:"required"`
	Data        notify.TemplateData `json:"data"`
}

// Send dispatches one event. Funding notifications and sends to another
// user's resources are admin-only; a denial sends nothing.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	event := notification.EventType(req.Event)
	caller := mw.CallerID(c)

	if event == notification.EventLoanFunded {
		if err := h.gate.RequireAdmin(c.Request().Context(), caller, authz.ActionFundingNotification); err != nil {
			return respondError(c, h.log, err)
		}
	} else if req.RecipientID != caller {
		if err := h.gate.RequireAdmin(c.Request().Context(), caller, authz.ActionBulkNotification); err != nil {
			return respondError(c, h.log, err)
		}
	}

	attempts := h.dispatcher.Dispatch(c.Request().Context(), event, req.RecipientID, req.Data)
	if err := h.auditor.Record(c.Request().Context(), requestMeta(c), audit.ActionNotificationSent, "notification", req.RecipientID, map[string]any{
		"event":    string(event),
		"channels": len(attempts),
	}); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"attempts": attempts})
}

type bulkSendReq struct {
	RecipientIDs []string            `json:"recipient_ids" validate:"required,min=1,max=1000,dive,hex32"`
	Event        string              `json:"event"         validate:"required"`
	Data         notify.TemplateData `json:"data"`
}

// BulkSend enqueues one job per recipient; the worker drains the queue.
func (h *NotificationHandler) BulkSend(c echo.Context) error {
	var req bulkSendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	caller := mw.CallerID(c)
	if err := h.gate.RequireAdmin(c.Request().Context(), caller, authz.ActionBulkNotification); err != nil {
		return respondError(c, h.log, err)
	}

	queued := h.bulk.Enqueue(c.Request().Context(), req.RecipientIDs, notification.EventType(req.Event), req.Data)
	if err := h.auditor.Record(c.Request().Context(), requestMeta(c), audit.ActionBulkNotificationSent, "notification", "", map[string]any{
		"event":      req.Event,
		"recipients": len(req.RecipientIDs),
		"queued":     queued,
	}); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusAccepted, map[string]any{"queued": queued})
}

type webhookDispatchReq struct {
	Event string              `json:"event" validate:"required"`
	Data  notify.TemplateData `json:"data"`
}

// DispatchWebhooks broadcasts to all active matching registrations and
// reports per-target failures in aggregate.
func (h *NotificationHandler) DispatchWebhooks(c echo.Context) error {
	var req webhookDispatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	caller := mw.CallerID(c)
	if err := h.gate.RequireAdmin(c.Request().Context(), caller, authz.ActionWebhookDispatch); err != nil {
		return respondError(c, h.log, err)
	}

	report := h.dispatcher.Broadcast(c.Request().Context(), notification.EventType(req.Event), req.Data)
	if err := h.auditor.Record(c.Request().Context(), requestMeta(c), audit.ActionWebhookDispatched, "webhook", "", map[string]any{
		"event":     req.Event,
		"attempted": report.Attempted,
		"delivered": report.Delivered,
	}); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, report)
}

// ListInApp returns the caller's pollable in-app notifications.
func (h *NotificationHandler) ListInApp(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.repo.ListInAppByUser(c.Request().Context(), mw.CallerID(c), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"notifications": rows})
}
