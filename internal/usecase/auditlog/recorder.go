package auditlog

import (
	"context"
	"fmt"

	"lendingportal-backend/internal/domain/audit"
)

// RequestMeta is the caller context stamped onto every entry.
type RequestMeta struct {
	UserID    string
	IP        string
	UserAgent string
}

type Recorder struct{ repo audit.Repository }

func NewRecorder(r audit.Repository) *Recorder { return &Recorder{repo: r} }

// Record appends one entry and blocks until the write completes. The caller
// is expected to propagate a failure; silent audit loss is a compliance risk.
func (r *Recorder) Record(ctx context.Context, meta RequestMeta, action audit.Action, resourceType string, resourceID string, details map[string]any) error {
	if !audit.ValidAction(action) {
		return fmt.Errorf("unknown audit action %q", action)
	}
	e := &audit.Entry{
		UserID:       meta.UserID,
		Action:       action,
		ResourceType: resourceType,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		Details:      details,
	}
	if resourceID != "" {
		e.ResourceID = &resourceID
	}
	return r.repo.Append(ctx, e)
}
