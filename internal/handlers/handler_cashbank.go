package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/middleware"
)

// cashBankHandler handles HTTP requests for the monthly cash/bank balance
// chain.
type cashBankHandler struct {
	cashBankService portssvc.CashBankSvc
}

func newCashBankHandler(cs portssvc.CashBankSvc) *cashBankHandler {
	return &cashBankHandler{cashBankService: cs}
}

// registerCashBankRoutes registers routes related to cash/bank balances.
func registerCashBankRoutes(rg *gin.RouterGroup, cashBankService portssvc.CashBankSvc) {
	h := newCashBankHandler(cashBankService)

	balances := rg.Group("/cash-bank-balances")
	{
		balances.POST("", h.createBalance)
		balances.GET("", h.listBalances)
		balances.GET("/:balanceID", h.getBalance)
		balances.PUT("/:balanceID", h.updateBalance)
		balances.POST("/:balanceID/recalculate", h.recalculateBalance)
		balances.DELETE("/:balanceID", h.deleteBalance)
	}
}

func (h *cashBankHandler) createBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCashBankBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balance, err := h.cashBankService.CreateBalance(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.Int("year", req.Year), slog.Int("month", req.Month)), err, "Failed to create cash/bank balance")
		return
	}

	logger.Info("Cash/bank balance created", slog.String("balance_id", balance.BalanceID))
	c.JSON(http.StatusCreated, dto.ToCashBankBalanceResponse(balance))
}

func (h *cashBankHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balanceID := c.Param("balanceID")

	balance, err := h.cashBankService.GetBalanceByID(c.Request.Context(), balanceID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("balance_id", balanceID)), err, "Failed to retrieve cash/bank balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashBankBalanceResponse(balance))
}

func (h *cashBankHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balances, err := h.cashBankService.ListBalances(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list cash/bank balances")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashBankBalanceResponses(balances))
}

func (h *cashBankHandler) updateBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balanceID := c.Param("balanceID")

	var req dto.UpdateCashBankBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balance, err := h.cashBankService.UpdateBalance(c.Request.Context(), balanceID, req, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("balance_id", balanceID)), err, "Failed to update cash/bank balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashBankBalanceResponse(balance))
}

func (h *cashBankHandler) recalculateBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balanceID := c.Param("balanceID")

	balance, err := h.cashBankService.RecalculateBalance(c.Request.Context(), balanceID, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("balance_id", balanceID)), err, "Failed to recalculate cash/bank balance")
		return
	}

	logger.Info("Cash/bank balance recalculated", slog.String("balance_id", balanceID))
	c.JSON(http.StatusOK, dto.ToCashBankBalanceResponse(balance))
}

func (h *cashBankHandler) deleteBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balanceID := c.Param("balanceID")

	if err := h.cashBankService.DeleteBalance(c.Request.Context(), balanceID, actorFromContext(c)); err != nil {
		respondWithError(c, logger.With(slog.String("balance_id", balanceID)), err, "Failed to delete cash/bank balance")
		return
	}

	logger.Info("Cash/bank balance deleted", slog.String("balance_id", balanceID))
	c.Status(http.StatusNoContent)
}
