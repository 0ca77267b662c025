package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// statsHandler serves ledger aggregates.
type statsHandler struct {
	statsService portssvc.LedgerStatsSvc
}

func registerStatsRoutes(rg *gin.RouterGroup, statsService portssvc.LedgerStatsSvc) {
	h := &statsHandler{statsService: statsService}

	stats := rg.Group("/stats")
	{
		stats.GET("/professors/:id/sent", h.total(statsService.SumSentByProfessor, "sum coins sent"))
		stats.GET("/students/:id/received", h.total(statsService.SumReceivedByStudent, "sum coins received"))
		stats.GET("/students/:id/spent", h.total(statsService.SumSpentByStudent, "sum coins spent"))
		stats.GET("/perks/:id/redemptions", h.redemptions)
	}
}

type sumFunc func(ctx context.Context, holderID string) (decimal.Decimal, error)

// total godoc
// @Summary Coin totals per holder
// @Description sent: coins a professor granted. received: coins a student was granted. spent: coins a student paid for perks.
// @Tags stats
// @Produce  json
// @Param   id path string true "Holder ID"
// @Success 200 {object} dto.AmountTotalResponse
// @Failure 404 {object} map[string]string "Holder not found"
// @Failure 500 {object} map[string]string "Failed to compute total"
// @Security BearerAuth
// @Router /stats/professors/{id}/sent [get]
// @Router /stats/students/{id}/received [get]
// @Router /stats/students/{id}/spent [get]
func (h *statsHandler) total(sum sumFunc, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		holderID := c.Param("id")
		total, err := sum(c.Request.Context(), holderID)
		if err != nil {
			respondError(c, err, action)
			return
		}
		c.JSON(http.StatusOK, dto.AmountTotalResponse{
			HolderID: holderID,
			Total:    total.StringFixed(domain.MoneyScale),
		})
	}
}

// redemptions godoc
// @Summary Number of times a perk was redeemed
// @Tags stats
// @Produce  json
// @Param   id path string true "Perk ID"
// @Success 200 {object} dto.RedemptionCountResponse
// @Failure 404 {object} map[string]string "Perk not found"
// @Failure 500 {object} map[string]string "Failed to count redemptions"
// @Security BearerAuth
// @Router /stats/perks/{id}/redemptions [get]
func (h *statsHandler) redemptions(c *gin.Context) {
	perkID := c.Param("id")
	count, err := h.statsService.CountRedemptionsForPerk(c.Request.Context(), perkID)
	if err != nil {
		respondError(c, err, "count redemptions")
		return
	}
	c.JSON(http.StatusOK, dto.RedemptionCountResponse{PerkID: perkID, Count: count})
}
