package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/arkastudio/studio_ledger/internal/core/ports/repositories"
	portssvc "github.com/arkastudio/studio_ledger/internal/core/ports/services"
	"github.com/arkastudio/studio_ledger/internal/dto"
	"github.com/arkastudio/studio_ledger/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvc
}

func newAccountHandler(as portssvc.AccountSvc) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvc) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/seed", h.seedDefaultChart)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.PATCH("/:code/active", h.setAccountActive)
		accounts.POST("/:code/toggle", h.toggleAccountActive)
		accounts.DELETE("/:code", h.deleteAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := actorFromContext(c)
	logger = logger.With(slog.String("account_code", req.Code))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created")
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) seedDefaultChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	created, err := h.accountService.SeedDefaultChart(c.Request.Context(), actorFromContext(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to seed default chart of accounts")
		return
	}

	logger.Info("Default chart seeded", slog.Int("created", created))
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), portsrepo.AccountFilter{
		AccountType: params.AccountType,
		SubType:     params.SubType,
		ActiveOnly:  params.ActiveOnly,
		CodePrefix:  params.CodePrefix,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *accountHandler) setAccountActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setAccountActive", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.SetAccountActive(c.Request.Context(), code, *req.Active, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), err, "Failed to update account status")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) toggleAccountActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.accountService.ToggleAccountActive(c.Request.Context(), code, actorFromContext(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), err, "Failed to toggle account status")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	if err := h.accountService.DeleteAccount(c.Request.Context(), code, actorFromContext(c)); err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted", slog.String("account_code", code))
	c.Status(http.StatusNoContent)
}
