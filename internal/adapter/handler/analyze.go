package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prepvoice/interview-coach/errors"
	dto "github.com/prepvoice/interview-coach/internal/adapter/dto/analysis"
	"github.com/prepvoice/interview-coach/internal/usecase/analysis"
)

// AnalyzeHandler handles the media analysis endpoint
type AnalyzeHandler struct {
	svc    *analysis.Service
	logger *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(svc *analysis.Service, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, logger: logger}
}

// Analyze scores an uploaded answer recording
// @Summary      Analyze a spoken answer
// @Description  Accepts an audio recording (plus optional video) and returns the composite score vector
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file  true   "Audio recording"
// @Param        video  formData  file  false  "Video recording"
// @Success      200    {object}  dto.AnalyzeResponse        "Score vector"
// @Failure      400    {object}  common.ErrorResponse       "Missing or empty audio upload"
// @Failure      500    {object}  common.ErrorResponse       "Pipeline failure"
// @Router       /api/analyze [post]
func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrMissingAudio())
	}
	if fileHeader.Filename == "" {
		return HandleError(h.logger, c, errors.ErrEmptyAudioFilename())
	}

	audioFile, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer audioFile.Close()

	audio := analysis.Upload{Filename: fileHeader.Filename, Content: audioFile}

	var video *analysis.Upload
	if videoHeader, err := c.FormFile("video"); err == nil && videoHeader.Filename != "" {
		videoFile, err := videoHeader.Open()
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInternal(err))
		}
		defer videoFile.Close()
		video = &analysis.Upload{Filename: videoHeader.Filename, Content: videoFile}
	}

	result, err := h.svc.Analyze(c.Request().Context(), audio, video)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("analysis completed",
			zap.String("request_id", getRequestID(c)),
			zap.Float64("overall", result.Overall),
			zap.String("confidence_source", string(result.ConfidenceSource)),
		)
	}
	return c.JSON(http.StatusOK, dto.FromResult(result))
}
