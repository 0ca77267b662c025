package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles the balance-changing ledger operations.
type transferHandler struct {
	transferService portssvc.TransferSvc
}

func newTransferHandler(ts portssvc.TransferSvc) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers the coin and semester credit routes.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, limited gin.HandlerFunc) {
	h := newTransferHandler(transferService)

	txns := rg.Group("/transactions")
	{
		txns.POST("/send-coins", middleware.RequireRole(middleware.RoleProfessor), limited, h.sendCoins)
		txns.POST("/redeem-perk", middleware.RequireRole(middleware.RoleStudent), limited, h.redeemPerk)
	}

	admin := rg.Group("/admin", middleware.RequireRole(middleware.RoleAdmin), limited)
	{
		admin.POST("/semester-credit", h.semesterCredit)
		admin.POST("/semester-credit/:professorID", h.semesterCreditForProfessor)
	}
}

// sendCoins godoc
// @Summary Send coins to a student
// @Description The authenticated professor grants coins to a student. The memo is required.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.SendCoinsRequest true "Grant details"
// @Success 201 {object} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid input, insufficient balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not a professor"
// @Failure 404 {object} map[string]string "Professor or student not found"
// @Failure 500 {object} map[string]string "Failed to send coins"
// @Security BearerAuth
// @Router /transactions/send-coins [post]
func (h *transferHandler) sendCoins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SendCoins", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	professorID, ok := callerID(c)
	if !ok {
		return
	}

	view, err := h.transferService.SendCoins(c.Request.Context(), professorID, req.RecipientID, req.Amount, req.Memo)
	if err != nil {
		respondError(c, err, "send coins")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// redeemPerk godoc
// @Summary Redeem a perk
// @Description The authenticated student pays the perk price and receives a coupon code.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.RedeemPerkRequest true "Perk to redeem"
// @Success 201 {object} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid input, inactive perk or insufficient balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not a student"
// @Failure 404 {object} map[string]string "Student or perk not found"
// @Failure 500 {object} map[string]string "Failed to redeem perk"
// @Security BearerAuth
// @Router /transactions/redeem-perk [post]
func (h *transferHandler) redeemPerk(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RedeemPerkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RedeemPerk", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	studentID, ok := callerID(c)
	if !ok {
		return
	}

	view, err := h.transferService.RedeemPerk(c.Request.Context(), studentID, req.PerkID)
	if err != nil {
		respondError(c, err, "redeem perk")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// semesterCredit godoc
// @Summary Credit every professor for the new semester
// @Description Runs one unit of work per professor. Not idempotent: every call credits again.
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.SemesterCreditResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 500 {object} map[string]string "Failed to run semester credit"
// @Security BearerAuth
// @Router /admin/semester-credit [post]
func (h *transferHandler) semesterCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run semester credit")

	result, err := h.transferService.SemesterCredit(c.Request.Context())
	if err != nil {
		respondError(c, err, "run semester credit")
		return
	}
	c.JSON(http.StatusOK, result)
}

// semesterCreditForProfessor godoc
// @Summary Credit one professor for the new semester
// @Tags admin
// @Produce  json
// @Param   professorID path string true "Professor ID"
// @Success 201 {object} dto.TransactionView
// @Failure 404 {object} map[string]string "Professor not found"
// @Failure 500 {object} map[string]string "Failed to credit professor"
// @Security BearerAuth
// @Router /admin/semester-credit/{professorID} [post]
func (h *transferHandler) semesterCreditForProfessor(c *gin.Context) {
	view, err := h.transferService.SemesterCreditForProfessor(c.Request.Context(), c.Param("professorID"))
	if err != nil {
		respondError(c, err, "credit professor")
		return
	}
	c.JSON(http.StatusCreated, view)
}
