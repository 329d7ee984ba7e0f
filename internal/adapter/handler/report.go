package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prepvoice/interview-coach/errors"
	dto "github.com/prepvoice/interview-coach/internal/adapter/dto/analysis"
	"github.com/prepvoice/interview-coach/internal/adapter/dto/common"
	"github.com/prepvoice/interview-coach/internal/usecase/report"
)

// ReportHandler handles PDF report generation
type ReportHandler struct {
	svc    *report.Service
	logger *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *report.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// Create renders a feedback report for an analysis result
// @Summary      Generate a feedback report
// @Description  Accepts the JSON body returned by /api/analyze (plus optional username and role) and returns a PDF attachment
// @Tags         Report
// @Accept       json
// @Produce      application/pdf
// @Param        request  body  dto.ReportRequest  true  "Analysis result with optional identity fields"
// @Success      200  {file}    binary                 "Rendered report"
// @Failure      400  {object}  common.ErrorResponse   "Missing required fields"
// @Failure      500  {object}  common.ErrorResponse   "Render failure"
// @Router       /api/report [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req dto.ReportRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid JSON payload"))
	}

	if missing := req.Missing(); len(missing) > 0 {
		if h.logger != nil {
			h.logger.Warn("report request missing fields",
				zap.String("request_id", getRequestID(c)),
				zap.Strings("missing", missing))
		}
		return c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   fmt.Sprintf("Missing fields: %v", missing),
			Missing: missing,
		})
	}

	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Score fields must lie in [0,1]"))
	}

	data, filename, err := h.svc.Build(c.Request().Context(), req.ToResult(), req.Username, req.Role)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
