package http

import (
	"log/slog"
	"net/http"

	"lendingportal-backend/internal/usecase/accounts"
	appUC "lendingportal-backend/internal/usecase/application"

	mw "lendingportal-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	apps     *appUC.Usecase
	accounts *accounts.Usecase
	log      *slog.Logger
}

func NewAdminHandler(apps *appUC.Usecase, acc *accounts.Usecase, log *slog.Logger) *AdminHandler {
	return &AdminHandler{apps: apps, accounts: acc, log: log}
}

type updateStatusReq struct {
	Status     string  `json:"status"      validate:"required"`
	Notes      string  `json:"notes"`
	AnnualRate float64 `json:"annual_rate" validate:"gte=0,lte=1"`
	TermMonths int     `json:"term_months" validate:"gte=0,lte=480"`
}

func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.apps.UpdateStatus(c.Request().Context(), requestMeta(c), appUC.UpdateStatusInput{
		AdminID:       mw.CallerID(c),
		ApplicationID: c.Param("application_id"),
		NewStatus:     req.Status,
		Notes:         req.Notes,
		AnnualRate:    req.AnnualRate,
		TermMonths:    req.TermMonths,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type batchUpdateReq struct {
	ApplicationIDs []string `json:"application_ids" validate:"required,min=1,max=100,dive,hex32"`
	Status         string   `json:"status"          validate:"required"`
	Notes          string   `json:"notes"`
}

func (h *AdminHandler) BatchUpdateStatus(c echo.Context) error {
	var req batchUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.apps.UpdateStatusBatch(c.Request().Context(), requestMeta(c), appUC.BatchUpdateInput{
		AdminID:        mw.CallerID(c),
		ApplicationIDs: req.ApplicationIDs,
		NewStatus:      req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

type assignReq struct {
	AdminID string `json:"admin_id" validate:"required,hex32"`
	Notes   string `json:"notes"`
}

func (h *AdminHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	err := h.apps.Assign(c.Request().Context(), requestMeta(c), appUC.AssignInput{
		AdminID:       mw.CallerID(c),
		ApplicationID: c.Param("application_id"),
		AssigneeID:    req.AdminID,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "assigned"})
}

type updateRolesReq struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

func (h *AdminHandler) UpdateRoles(c echo.Context) error {
	var req updateRolesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.accounts.UpdateRoles(c.Request().Context(), requestMeta(c), mw.CallerID(c), c.Param("user_id"), req.Roles); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// BankAccounts lists the caller's accounts, masked unless ?masked=false
// (which is admin-only).
func (h *AdminHandler) BankAccounts(c echo.Context) error {
	masked := c.QueryParam("masked") != "false"
	out, err := h.accounts.ListBankAccounts(c.Request().Context(), requestMeta(c), mw.CallerID(c), masked)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"accounts": out})
}
