package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/middleware"
)

// batchHandler triggers the monthly batch processors.
type batchHandler struct {
	depreciationService portssvc.DepreciationSvc
	eclService          portssvc.ECLSvc
}

func newBatchHandler(ds portssvc.DepreciationSvc, es portssvc.ECLSvc) *batchHandler {
	return &batchHandler{
		depreciationService: ds,
		eclService:          es,
	}
}

// registerBatchRoutes registers the batch processing routes.
func registerBatchRoutes(rg *gin.RouterGroup, depreciationService portssvc.DepreciationSvc, eclService portssvc.ECLSvc) {
	h := newBatchHandler(depreciationService, eclService)

	processing := rg.Group("/processing")
	{
		processing.POST("/depreciation", h.runDepreciation)
		processing.POST("/ecl", h.runECL)
	}
}

func (h *batchHandler) runDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for runDepreciation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.depreciationService.ProcessMonthly(c.Request.Context(), req.Date, req.AutoPost, actorFromContext(c))
	if err != nil {
		// A partial result still tells the operator what went through before
		// the abort.
		if result != nil {
			logger.Error("Depreciation run aborted",
				slog.String("error", err.Error()),
				slog.Int("processed", result.Processed))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "partialResult": result})
			return
		}
		respondWithError(c, logger, err, "Failed to run depreciation processing")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *batchHandler) runECL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for runECL", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.eclService.ProcessMonthly(c.Request.Context(), req.Date, req.AutoPost, actorFromContext(c))
	if err != nil {
		if result != nil {
			logger.Error("ECL run aborted",
				slog.String("error", err.Error()),
				slog.Int("processed", result.Processed))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "partialResult": result})
			return
		}
		respondWithError(c, logger, err, "Failed to run ECL processing")
		return
	}

	c.JSON(http.StatusOK, result)
}
