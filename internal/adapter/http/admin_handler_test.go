package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	mw "lendingportal-backend/internal/adapter/middleware"
	"lendingportal-backend/internal/domain/user"
	"lendingportal-backend/internal/testutil/appmock"
	"lendingportal-backend/internal/testutil/auditmock"
	"lendingportal-backend/internal/testutil/usermock"
	"lendingportal-backend/internal/usecase/accounts"
	appUC "lendingportal-backend/internal/usecase/application"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/scoring"

	appDomain "lendingportal-backend/internal/domain/application"
)

func adminRoles() map[string][]string {
	return map[string][]string{
		handlerAdminID:    {user.RoleAdmin},
		handlerBorrowerID: {user.RoleUser},
	}
}

func newAdminHandler(repo *appmock.Repo, audits *auditmock.Repo, users *usermock.Repo) *AdminHandler {
	log := discardLog()
	gate := authz.NewGate(users, log)
	auditor := auditlog.NewRecorder(audits)
	apps := appUC.NewUsecase(repo, auditor, gate, noopNotifier{}, scoring.DefaultConfig(), log)
	acc := accounts.NewUsecase(users, gate, auditor, log)
	return NewAdminHandler(apps, acc, log)
}

func reviewableApp() *appDomain.Application {
	return &appDomain.Application{
		ID:                7,
		ApplicationID:     "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ApplicationNumber: "CL-2026-069-52205",
		BorrowerID:        handlerBorrowerID,
		Status:            appDomain.StatusUnderReview,
	}
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	app := reviewableApp()
	repo := &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*appDomain.Application, error) {
			return app, nil
		},
	}
	h := newAdminHandler(repo, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{"status": "approved", "notes": "checks out"}, handlerAdminID)
	c.SetParamNames("application_id")
	c.SetParamValues(app.ApplicationID)

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var dto appUC.ApplicationDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if dto.Status != "approved" {
		t.Fatalf("dto status = %q", dto.Status)
	}
}

func TestAdminHandler_UpdateStatus_NonAdminForbidden(t *testing.T) {
	repo := &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*appDomain.Application, error) {
			t.Fatal("application loaded despite denial")
			return nil, nil
		},
	}
	h := newAdminHandler(repo, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{"status": "approved"}, handlerBorrowerID)
	c.SetParamNames("application_id")
	c.SetParamValues("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	app := reviewableApp()
	repo := &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*appDomain.Application, error) {
			return app, nil
		},
	}
	h := newAdminHandler(repo, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{"status": "launched"}, handlerAdminID)
	c.SetParamNames("application_id")
	c.SetParamValues(app.ApplicationID)

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !containsFieldMsg(resp.Details, "status", "unknown status") {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestAdminHandler_BatchUpdateStatus(t *testing.T) {
	apps := map[string]*appDomain.Application{
		"11111111111111111111111111111111": {ID: 1, ApplicationID: "11111111111111111111111111111111", Status: appDomain.StatusUnderReview},
		"22222222222222222222222222222222": {ID: 2, ApplicationID: "22222222222222222222222222222222", Status: appDomain.StatusUnderReview},
	}
	repo := &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*appDomain.Application, error) {
			if a, ok := apps[applicationID]; ok {
				return a, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newAdminHandler(repo, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{
		"application_ids": []string{
			"11111111111111111111111111111111",
			"22222222222222222222222222222222",
			"33333333333333333333333333333333",
		},
		"status": "approved",
	}, handlerAdminID)

	if err := h.BatchUpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	var res appUC.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(res.Updated) != 2 {
		t.Fatalf("updated = %v", res.Updated)
	}
	if res.Failed["33333333333333333333333333333333"] != "not found" {
		t.Fatalf("failed = %v", res.Failed)
	}
}

func TestAdminHandler_BatchUpdateStatus_RejectsBadIDs(t *testing.T) {
	h := newAdminHandler(&appmock.Repo{}, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{
		"application_ids": []string{"not-hex"},
		"status":          "approved",
	}, handlerAdminID)

	if err := h.BatchUpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminHandler_Assign(t *testing.T) {
	app := reviewableApp()
	var saved *appDomain.AdminAssignment
	repo := &appmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, applicationID string) (*appDomain.Application, error) {
			return app, nil
		},
		SaveAssignmentFn: func(ctx context.Context, a *appDomain.AdminAssignment) error {
			saved = a
			return nil
		},
	}
	h := newAdminHandler(repo, &auditmock.Repo{}, &usermock.Repo{Roles: adminRoles()})

	c, rec := jsonCtx(t, newEcho(), http.MethodPost, map[string]any{
		"admin_id": "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		"notes":    "take this one",
	}, handlerAdminID)
	c.SetParamNames("application_id")
	c.SetParamValues(app.ApplicationID)

	if err := h.Assign(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	if saved == nil || saved.AdminID != "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee" || saved.AssignedBy != handlerAdminID {
		t.Fatalf("assignment = %+v", saved)
	}
}

func TestAdminHandler_UpdateRoles(t *testing.T) {
	users := &usermock.Repo{Roles: adminRoles()}
	h := newAdminHandler(&appmock.Repo{}, &auditmock.Repo{}, users)

	c, rec := jsonCtx(t, newEcho(), http.MethodPut, map[string]any{"roles": []string{"user", "underwriter"}}, handlerAdminID)
	c.SetParamNames("user_id")
	c.SetParamValues(handlerBorrowerID)

	if err := h.UpdateRoles(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	got := users.Roles[handlerBorrowerID]
	if len(got) != 2 || got[1] != "underwriter" {
		t.Fatalf("roles = %v", got)
	}
}

func TestAdminHandler_BankAccounts_MaskedByDefault(t *testing.T) {
	users := &usermock.Repo{
		Roles: adminRoles(),
		ListBankAccountsFn: func(ctx context.Context, userID string) ([]user.BankAccount, error) {
			return []user.BankAccount{{AccountID: "f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0", UserID: userID, BankName: "First Example Bank", AccountNumber: "123456789012"}}, nil
		},
	}
	h := newAdminHandler(&appmock.Repo{}, &auditmock.Repo{}, users)

	c, rec := jsonCtx(t, newEcho(), http.MethodGet, nil, handlerBorrowerID)

	if err := h.BankAccounts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "********9012") {
		t.Fatalf("body = %s, want masked account number", body)
	}
	if strings.Contains(body, "123456789012") {
		t.Fatalf("body leaks the raw account number: %s", body)
	}
}

func TestAdminHandler_BankAccounts_UnmaskedRequiresAdmin(t *testing.T) {
	users := &usermock.Repo{
		Roles: adminRoles(),
		ListBankAccountsFn: func(ctx context.Context, userID string) ([]user.BankAccount, error) {
			return []user.BankAccount{{AccountID: "f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0", UserID: userID, AccountNumber: "123456789012"}}, nil
		},
	}
	h := newAdminHandler(&appmock.Repo{}, &auditmock.Repo{}, users)

	req := httptest.NewRequest(http.MethodGet, "/?masked=false", nil)
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(req, rec)
	c.Set(mw.UserIDKey, handlerBorrowerID)

	if err := h.BankAccounts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
