package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/middleware"
)

// reportingHandler handles HTTP requests for the derived reports: trial
// balance, financial statements and AR aging.
type reportingHandler struct {
	trialBalanceService portssvc.TrialBalanceSvc
	statementService    portssvc.StatementSvc
}

func newReportingHandler(tbs portssvc.TrialBalanceSvc, ss portssvc.StatementSvc) *reportingHandler {
	return &reportingHandler{
		trialBalanceService: tbs,
		statementService:    ss,
	}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, trialBalanceService portssvc.TrialBalanceSvc, statementService portssvc.StatementSvc) {
	h := newReportingHandler(trialBalanceService, statementService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/cash-flow", h.cashFlowStatement)
		reports.GET("/ar-aging", h.arAging)
	}
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var asOf dto.AsOfParams
	if err := c.ShouldBindQuery(&asOf); err != nil {
		logger.Warn("Failed to bind query for trialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var opts dto.TrialBalanceOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		logger.Warn("Failed to bind options for trialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tb, err := h.trialBalanceService.ComputeAsOf(c.Request.Context(), asOf.AsOf, opts)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute trial balance")
		return
	}

	c.JSON(http.StatusOK, tb)
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for incomeStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	statement, err := h.statementService.IncomeStatement(c.Request.Context(), params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build income statement")
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for balanceSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	statement, err := h.statementService.BalanceSheet(c.Request.Context(), params.AsOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build balance sheet")
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *reportingHandler) cashFlowStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for cashFlowStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	statement, err := h.statementService.CashFlowStatement(c.Request.Context(), params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build cash flow statement")
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *reportingHandler) arAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for arAging", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.statementService.ARAgingReport(c.Request.Context(), params.AsOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build AR aging report")
		return
	}

	c.JSON(http.StatusOK, report)
}
