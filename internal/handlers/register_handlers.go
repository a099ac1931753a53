package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkastudio/studio_ledger/internal/apperrors"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/middleware"
	"github.com/arkastudio/studio_ledger/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1", middleware.ActorIDMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerJournalRoutes(v1, services.Journal, services.Posting)
	registerPeriodRoutes(v1, services.Period)
	registerCashBankRoutes(v1, services.CashBank)
	registerReportingRoutes(v1, services.TrialBalance, services.Statement)
	registerBatchRoutes(v1, services.Depreciation, services.ECL)
}

// actorFromContext resolves the acting user for write operations. The ledger
// records actors but does not authenticate them; unidentified callers are
// recorded as "system".
func actorFromContext(c *gin.Context) string {
	if actorID, ok := middleware.GetActorIDFromCtx(c.Request.Context()); ok {
		return actorID
	}
	return "system"
}

// respondWithError maps the error taxonomy onto HTTP statuses and writes the
// JSON error body.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrProtected):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
