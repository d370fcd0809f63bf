package mysql

import (
	"context"
	"errors"
	"testing"

	auditDomain "lendingportal-backend/internal/domain/audit"
)

func appendEntry(t *testing.T, repo *AuditRepository, userID string, action auditDomain.Action) *auditDomain.Entry {
	t.Helper()
	e := &auditDomain.Entry{
		UserID:       userID,
		Action:       action,
		ResourceType: "loan_application",
		IP:           "203.0.113.9",
		Details:      map[string]any{"k": "v"},
	}
	if err := repo.Append(context.Background(), e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return e
}

func TestAuditAppendAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)

	appendEntry(t, repo, "u1", auditDomain.ActionApplicationSubmitted)
	appendEntry(t, repo, "u1", auditDomain.ActionStatusUpdated)
	appendEntry(t, repo, "u2", auditDomain.ActionApplicationViewed)

	got, err := repo.ListByUser(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	// newest first
	if got[0].Action != auditDomain.ActionStatusUpdated {
		t.Fatalf("order: %+v", got)
	}
	if got[0].Details["k"] != "v" {
		t.Fatalf("details lost: %+v", got[0].Details)
	}
}

func TestAuditEntriesAreImmutable(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	e := appendEntry(t, repo, "u1", auditDomain.ActionStatusUpdated)

	// direct UPDATE through the ORM is rejected by the entity hook
	err := db.Model(e).Update("ip", "10.0.0.1").Error
	if !errors.Is(err, auditDomain.ErrImmutable) {
		t.Fatalf("update must fail with ErrImmutable, got %v", err)
	}

	// so is DELETE
	err = db.Delete(e).Error
	if !errors.Is(err, auditDomain.ErrImmutable) {
		t.Fatalf("delete must fail with ErrImmutable, got %v", err)
	}

	// the row is untouched
	got, err := repo.ListByUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 || got[0].IP != "203.0.113.9" {
		t.Fatalf("entry mutated: %+v", got)
	}
}

func TestAuditListLimitBounds(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	for i := 0; i < 5; i++ {
		appendEntry(t, repo, "u1", auditDomain.ActionApplicationViewed)
	}

	got, err := repo.ListByUser(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("limit not applied: %d", len(got))
	}
}
