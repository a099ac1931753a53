package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/middleware"
)

// periodHandler handles HTTP requests for fiscal periods.
type periodHandler struct {
	periodService portssvc.FiscalPeriodSvc
}

func newPeriodHandler(ps portssvc.FiscalPeriodSvc) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to fiscal periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvc) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("period_code", req.Code)), err, "Failed to create fiscal period")
		return
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("period_id", periodID)), err, "Failed to retrieve fiscal period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list fiscal periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("period_id", periodID)), err, "Failed to close fiscal period")
		return
	}

	logger.Info("Fiscal period closed", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), periodID, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("period_id", periodID)), err, "Failed to reopen fiscal period")
		return
	}

	logger.Info("Fiscal period reopened", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
