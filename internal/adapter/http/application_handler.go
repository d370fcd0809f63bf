package http

import (
	"log/slog"
	"net/http"

	appDomain "lendingportal-backend/internal/domain/application"
	appUC "lendingportal-backend/internal/usecase/application"
	"lendingportal-backend/internal/usecase/scoring"

	mw "lendingportal-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct {
	uc  *appUC.Usecase
	log *slog.Logger
}

func NewApplicationHandler(uc *appUC.Usecase, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, log: log}
}

type applicationFieldsReq struct {
	FirstName       string  `json:"first_name"        validate:"required,min=2"`
	LastName        string  `json:"last_name"         validate:"required,min=2"`
	BusinessName    string  `json:"business_name"     validate:"required"`
	Phone           string  `json:"phone"             validate:"required,phone"`
	Email           string  `json:"email"             validate:"omitempty,email"`
	LoanType        string  `json:"loan_type"         validate:"required,loan_type"`
	AmountRequested float64 `json:"amount_requested"  validate:"required,gte=1000,lte=50000000"`
	YearsInBusiness float64 `json:"years_in_business" validate:"gte=0"`
}

func (r applicationFieldsReq) scoringInput() scoring.Input {
	return scoring.Input{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		BusinessName:    r.BusinessName,
		Phone:           r.Phone,
		LoanType:        appDomain.LoanType(r.LoanType),
		AmountRequested: r.AmountRequested,
		YearsInBusiness: r.YearsInBusiness,
	}
}

// Validate runs the pure validator/risk scorer; nothing is persisted.
func (h *ApplicationHandler) Validate(c echo.Context) error {
	var req applicationFieldsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return c.JSON(http.StatusOK, h.uc.Evaluate(req.scoringInput()))
}

// Eligibility reports the scoring summary without the full validation run
// feedback loop.
func (h *ApplicationHandler) Eligibility(c echo.Context) error {
	var req applicationFieldsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res := h.uc.Evaluate(req.scoringInput())
	return c.JSON(http.StatusOK, map[string]any{
		"risk_score":             res.RiskScore,
		"auto_approval_eligible": res.AutoApprovalEligible,
	})
}

// Create is the process path: validation failure returns the structured
// error list and creates no record.
func (h *ApplicationHandler) Create(c echo.Context) error {
	var req applicationFieldsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Process(c.Request().Context(), requestMeta(c), appUC.ProcessInput{
		BorrowerID:      mw.CallerID(c),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BusinessName:    req.BusinessName,
		Phone:           req.Phone,
		Email:           req.Email,
		LoanType:        appDomain.LoanType(req.LoanType),
		AmountRequested: req.AmountRequested,
		YearsInBusiness: req.YearsInBusiness,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), requestMeta(c), mw.CallerID(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), mw.CallerID(c), c.QueryParam("search"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": out})
}

func (h *ApplicationHandler) ExportCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="applications.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	if err := h.uc.ExportCSV(c.Request().Context(), requestMeta(c), mw.CallerID(c), c.Response()); err != nil {
		h.log.Error("csv export failed", "error", err)
	}
	return nil
}
