package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

// transactionHandler handles HTTP requests for operational transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	mapping            domain.AccountMapping
}

// RegisterTransactionRoutes registers routes for recording and voiding transactions.
// Every record call is translated into postings with mapping.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, mapping domain.AccountMapping) {
	h := &transactionHandler{transactionService: ts, mapping: mapping}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.recordTransaction)
		txns.GET("/:id", h.getTransaction)
		txns.POST("/:id/void", h.voidTransaction)
	}
}

// recordTransaction records an income, expense or transfer and posts its accounting entry.
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to record transaction",
		slog.String("type", string(req.Type)),
		slog.String("amount", req.Amount.String()),
		slog.String("currency_code", req.CurrencyCode))

	txn, err := h.transactionService.RecordTransaction(c.Request.Context(), req, h.mapping, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record transaction")
		return
	}

	logger.Info("Transaction recorded successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, txn)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// voidTransaction reverses a posted transaction's entry.
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to void transaction")
	txn, err := h.transactionService.VoidTransaction(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to void transaction")
		return
	}

	logger.Info("Transaction voided successfully")
	c.JSON(http.StatusOK, txn)
}
