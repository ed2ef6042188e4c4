package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dual_ledger/internal/core/ports/services"
	"github.com/SscSPs/dual_ledger/internal/dto"
	"github.com/SscSPs/dual_ledger/internal/middleware"
)

// journalHandler handles manual accounting entries and periods.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	periodService  portssvc.PeriodSvcFacade
}

// RegisterJournalRoutes registers entry and period routes.
func RegisterJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade, ps portssvc.PeriodSvcFacade) {
	h := &journalHandler{journalService: js, periodService: ps}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("/:id", h.getEntry)
	}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.openPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/close", h.closePeriod)
		periods.GET("/:id/entries", h.listEntries)
	}
}

// postEntry posts a balanced entry into an open period.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("period_id", req.PeriodID))
	logger.Info("Received request to post entry", slog.Int("posting_count", len(req.Postings)))
	entry, err := h.journalService.PostEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, entry)
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entries, err := h.journalService.ListEntriesByPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *journalHandler) openPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.OpenPeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open period")
		return
	}
	logger.Info("Period opened successfully", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, period)
}

func (h *journalHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

func (h *journalHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, period)
}

// closePeriod closes a period for good once in-flight postings drain.
func (h *journalHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")
	userID, ok := actingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("period_id", periodID))
	logger.Info("Received request to close period")
	period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to close period")
		return
	}
	logger.Info("Period closed successfully")
	c.JSON(http.StatusOK, period)
}
