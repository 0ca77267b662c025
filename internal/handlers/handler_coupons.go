package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// couponHandler handles coupon lookups, transfers and artifacts.
type couponHandler struct {
	ledgerService   portssvc.LedgerReaderSvc
	couponService   portssvc.CouponSvc
	transferService portssvc.TransferSvc
}

func registerCouponRoutes(
	rg *gin.RouterGroup,
	ledgerService portssvc.LedgerReaderSvc,
	couponService portssvc.CouponSvc,
	transferService portssvc.TransferSvc,
	limited gin.HandlerFunc,
) {
	h := &couponHandler{
		ledgerService:   ledgerService,
		couponService:   couponService,
		transferService: transferService,
	}

	coupons := rg.Group("/coupons/:code")
	{
		coupons.GET("", h.getCoupon)
		coupons.GET("/history", h.getCouponHistory)
		coupons.GET("/qrcode", h.getCouponQRCode)
		coupons.POST("/send", limited, h.resendCoupon)
		coupons.POST("/transfer", middleware.RequireRole(middleware.RoleStudent), limited, h.transferCoupon)
	}
}

// bindCode binds and validates the :code path parameter, answering 400 on failure.
func bindCode(c *gin.Context) (string, bool) {
	var uri dto.CouponCodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid coupon code", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
		return "", false
	}
	return uri.Code, true
}

// getCoupon godoc
// @Summary Get the entry that issued a coupon
// @Description Returns the PERK_REDEMPTION entry. Use the history endpoint to find the current owner.
// @Tags coupons
// @Produce  json
// @Param   code path string true "Coupon code"
// @Success 200 {object} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid coupon code"
// @Failure 404 {object} map[string]string "Coupon not found"
// @Failure 500 {object} map[string]string "Failed to retrieve coupon"
// @Security BearerAuth
// @Router /coupons/{code} [get]
func (h *couponHandler) getCoupon(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}
	view, err := h.ledgerService.GetByCouponCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "retrieve coupon")
		return
	}
	c.JSON(http.StatusOK, view)
}

// getCouponHistory godoc
// @Summary List every entry of a coupon
// @Description Oldest first. The recipient of the last entry is the current owner.
// @Tags coupons
// @Produce  json
// @Param   code path string true "Coupon code"
// @Success 200 {array} dto.TransactionView
// @Failure 404 {object} map[string]string "Coupon not found"
// @Failure 500 {object} map[string]string "Failed to retrieve coupon history"
// @Security BearerAuth
// @Router /coupons/{code}/history [get]
func (h *couponHandler) getCouponHistory(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}
	views, err := h.ledgerService.GetCouponHistory(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "retrieve coupon history")
		return
	}
	c.JSON(http.StatusOK, views)
}

// getCouponQRCode godoc
// @Summary Get the QR code of a coupon
// @Tags coupons
// @Produce  png
// @Param   code path string true "Coupon code"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Coupon not found"
// @Failure 500 {object} map[string]string "Failed to render coupon"
// @Security BearerAuth
// @Router /coupons/{code}/qrcode [get]
func (h *couponHandler) getCouponQRCode(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}
	png, err := h.couponService.CouponQRCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "render coupon")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// resendCoupon godoc
// @Summary Send the coupon email again
// @Description Queues the coupon email, with its QR code, for the current owner.
// @Tags coupons
// @Produce  json
// @Param   code path string true "Coupon code"
// @Success 202 {object} map[string]string
// @Failure 404 {object} map[string]string "Coupon not found"
// @Failure 500 {object} map[string]string "Failed to send coupon"
// @Security BearerAuth
// @Router /coupons/{code}/send [post]
func (h *couponHandler) resendCoupon(c *gin.Context) {
	code, ok := bindCode(c)
	if !ok {
		return
	}
	if err := h.couponService.ResendCoupon(c.Request.Context(), code); err != nil {
		respondError(c, err, "send coupon")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// transferCoupon godoc
// @Summary Transfer a coupon to another student
// @Description The authenticated student must be the coupon's current owner.
// @Tags coupons
// @Accept  json
// @Produce  json
// @Param   code path string true "Coupon code"
// @Param   request body dto.TransferCouponRequest true "Recipient"
// @Success 201 {object} dto.TransactionView
// @Failure 400 {object} map[string]string "Invalid input or not the current owner"
// @Failure 403 {object} map[string]string "Caller is not a student"
// @Failure 404 {object} map[string]string "Coupon or student not found"
// @Failure 500 {object} map[string]string "Failed to transfer coupon"
// @Security BearerAuth
// @Router /coupons/{code}/transfer [post]
func (h *couponHandler) transferCoupon(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, ok := bindCode(c)
	if !ok {
		return
	}
	var req dto.TransferCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransferCoupon", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fromStudentID, ok := callerID(c)
	if !ok {
		return
	}

	view, err := h.transferService.TransferCoupon(c.Request.Context(), code, fromStudentID, req.ToStudentID)
	if err != nil {
		respondError(c, err, "transfer coupon")
		return
	}
	c.JSON(http.StatusCreated, view)
}
