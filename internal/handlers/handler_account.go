package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

// accountHandler handles HTTP requests related to both account registries and their balances.
type accountHandler struct {
	accountService     portssvc.AccountSvcFacade
	balanceService     portssvc.BalanceSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade, ts portssvc.TransactionSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:     as,
		balanceService:     bs,
		transactionService: ts,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade, ts portssvc.TransactionSvcFacade) {
	h := newAccountHandler(as, bs, ts)

	operational := rg.Group("/operational-accounts")
	{
		operational.POST("", h.createOperationalAccount)
		operational.GET("", h.listOperationalAccounts)
		operational.PATCH("/:id", h.updateOperationalAccount)
	}

	accounting := rg.Group("/accounting-accounts")
	{
		accounting.POST("", h.createAccountingAccount)
		accounting.GET("", h.listAccountingAccounts)
		accounting.PATCH("/:id", h.updateAccountingAccount)
	}

	accounts := rg.Group("/accounts/:id")
	{
		accounts.GET("", h.getAccount)
		accounts.POST("/deactivate", h.deactivateAccount)
		accounts.POST("/activate", h.activateAccount)
		accounts.DELETE("", h.deleteAccount)
		accounts.GET("/balance", h.getBalance)
		accounts.GET("/summary", h.getSummary)
		accounts.GET("/history", h.getHistory)
		accounts.GET("/transactions", h.listTransactions)
	}

	rg.GET("/balances/total", h.getTotalBalance)
}

// createOperationalAccount creates a cash, bank or wallet account.
func (h *accountHandler) createOperationalAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperationalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOperationalAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create operational account", slog.String("account_name", req.Name), slog.String("currency_code", req.CurrencyCode))
	account, err := h.accountService.CreateOperationalAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create operational account")
		return
	}

	logger.Info("Operational account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToOperationalAccountResponse(account))
}

func (h *accountHandler) listOperationalAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOperationalAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListOperationalAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListOperationalAccounts(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondError(c, logger, err, "Failed to list operational accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToListOperationalAccountResponse(accounts)})
}

// createAccountingAccount adds an account to the chart of accounts.
func (h *accountHandler) createAccountingAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountingAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccountingAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create accounting account", slog.String("code", req.Code))
	account, err := h.accountService.CreateAccountingAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create accounting account")
		return
	}

	logger.Info("Accounting account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountingAccountResponse(account))
}

func (h *accountHandler) listAccountingAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.accountService.ListAccountingAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounting accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToListAccountingAccountResponse(accounts)})
}

// getAccount retrieves an account of either kind.
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("target_account_id", accountID))

	account, err := h.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount blocks new activity on an account. History is kept.
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to deactivate account")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate account")
		return
	}

	logger.Info("Account deactivated successfully")
	c.Status(http.StatusNoContent)
}

// activateAccount reopens an inactive account for new activity.
func (h *accountHandler) activateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to activate account")
	if err := h.accountService.ActivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, logger, err, "Failed to activate account")
		return
	}

	logger.Info("Account activated successfully")
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) updateOperationalAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var req dto.UpdateOperationalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOperationalAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	account, err := h.accountService.UpdateOperationalAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update operational account")
		return
	}
	logger.Info("Operational account updated successfully")
	c.JSON(http.StatusOK, dto.ToOperationalAccountResponse(account))
}

func (h *accountHandler) updateAccountingAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var req dto.UpdateAccountingAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccountingAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	account, err := h.accountService.UpdateAccountingAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update accounting account")
		return
	}
	logger.Info("Accounting account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountingAccountResponse(account))
}

// deleteAccount soft deletes an operational account.
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to delete account")
	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	balance, err := h.balanceService.BalanceOf(c.Request.Context(), accountID, params.AsOf)
	if err != nil {
		respondError(c, logger.With(slog.String("target_account_id", accountID)), err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *accountHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.balanceService.AccountSummary(c.Request.Context(), accountID, params.From, params.To)
	if err != nil {
		respondError(c, logger.With(slog.String("target_account_id", accountID)), err, "Failed to summarize account")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *accountHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	points, err := h.balanceService.BalanceHistory(c.Request.Context(), accountID, params.From, params.To, params.IntervalDays)
	if err != nil {
		respondError(c, logger.With(slog.String("target_account_id", accountID)), err, "Failed to build balance history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "points": points})
}

// listTransactions pages through an operational account's transactions, newest first.
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to list transactions", slog.Int("limit", params.Limit))
	resp, err := h.transactionService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) getTotalBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.TotalBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetTotalBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	total, err := h.balanceService.TotalBalance(c.Request.Context(), params.CurrencyCode, params.AsOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate total balance")
		return
	}
	c.JSON(http.StatusOK, total)
}
