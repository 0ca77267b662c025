package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves read-only ledger queries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newLedgerHandler(ls portssvc.LedgerReaderSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := newLedgerHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/recent", h.getRecent)
		txns.GET("/:id", h.getTransaction)
	}

	rg.GET("/holders/:holderID/statement", h.getStatement)
}

// getTransaction godoc
// @Summary Get a ledger entry
// @Tags transactions
// @Produce  json
// @Param   id path int true "Ledger entry ID"
// @Success 200 {object} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction ID must be a positive integer"})
		return
	}

	view, err := h.ledgerService.GetByID(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, view)
}

// listTransactions godoc
// @Summary List ledger entries
// @Description Newest first, keyset paginated. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   kind query string false "COIN_GRANT, PERK_REDEMPTION, SEMESTER_CREDIT or COUPON_TRANSFER"
// @Param   from query string false "Inclusive lower bound (RFC 3339)"
// @Param   to query string false "Inclusive upper bound (RFC 3339)"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	params := dto.ListTransactionsParams{
		From:      query.From,
		To:        query.To,
		Limit:     query.Limit,
		NextToken: query.NextToken,
	}
	if query.Kind != "" {
		kind, err := domain.ParseEntryKind(query.Kind)
		if err != nil {
			respondError(c, err, "list transactions")
			return
		}
		params.Kind = &kind
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRecent godoc
// @Summary List the most recent ledger entries
// @Tags transactions
// @Produce  json
// @Param   n query int false "Number of entries (default 10, max 100)"
// @Success 200 {array} dto.TransactionView
// @Failure 500 {object} map[string]string "Failed to list recent transactions"
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *ledgerHandler) getRecent(c *gin.Context) {
	var query dto.RecentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be an integer"})
		return
	}

	views, err := h.ledgerService.GetRecent(c.Request.Context(), query.N)
	if err != nil {
		respondError(c, err, "list recent transactions")
		return
	}
	c.JSON(http.StatusOK, views)
}

// getStatement godoc
// @Summary Get a holder's statement
// @Description Every entry the holder took part in, newest first. Callers may only read their own statement unless they are admins.
// @Tags holders
// @Produce  json
// @Param   holderID path string true "Professor or student ID"
// @Param   from query string false "Inclusive lower bound (RFC 3339)"
// @Param   to query string false "Inclusive upper bound (RFC 3339)"
// @Success 200 {array} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 403 {object} map[string]string "Not your statement"
// @Failure 404 {object} map[string]string "Holder not found"
// @Failure 500 {object} map[string]string "Failed to retrieve statement"
// @Security BearerAuth
// @Router /holders/{holderID}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("holderID")

	userID, ok := callerID(c)
	if !ok {
		return
	}
	if role, _ := middleware.GetRoleFromContext(c); role != middleware.RoleAdmin && userID != holderID {
		logger.Warn("Statement requested for another holder", slog.String("holder_id", holderID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var query dto.TimeRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	views, err := h.ledgerService.GetStatement(c.Request.Context(), holderID, query.From, query.To)
	if err != nil {
		respondError(c, err, "retrieve statement")
		return
	}
	c.JSON(http.StatusOK, views)
}
