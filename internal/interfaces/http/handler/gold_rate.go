package handler

import (
	"strconv"

	pricingapp "github.com/jewelerp/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// GoldRateHandler handles daily gold rate API endpoints
type GoldRateHandler struct {
	BaseHandler
	rateService *pricingapp.GoldRateService
}

// NewGoldRateHandler creates a new GoldRateHandler
func NewGoldRateHandler(rateService *pricingapp.GoldRateService) *GoldRateHandler {
	return &GoldRateHandler{
		rateService: rateService,
	}
}

// Publish godoc
// @Summary      Publish a gold rate
// @Description  Publishes the rate per gram for a karat grade and deactivates the previous one
// @Tags         gold-rates
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.PublishGoldRateRequest true "Gold rate request"
// @Success      201 {object} dto.Response{data=pricingapp.GoldRateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gold-rates [post]
func (h *GoldRateHandler) Publish(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req pricingapp.PublishGoldRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.rateService.Publish(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rate)
}

// Board godoc
// @Summary      Get the rate board
// @Description  Returns the latest active rate for every karat grade
// @Tags         gold-rates
// @Produce      json
// @Success      200 {object} dto.Response{data=pricingapp.GoldRateBoardResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gold-rates/board [get]
func (h *GoldRateHandler) Board(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	board, err := h.rateService.Board(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, board)
}

// History godoc
// @Summary      Get rate history
// @Description  Returns published rates for a karat grade, newest first
// @Tags         gold-rates
// @Produce      json
// @Param        karat path string true "Karat grade" example(22K)
// @Param        limit query int false "Maximum entries" default(30)
// @Success      200 {object} dto.Response{data=[]pricingapp.GoldRateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gold-rates/{karat}/history [get]
func (h *GoldRateHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	limit := 30
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.rateService.History(c.Request.Context(), tenantID, c.Param("karat"), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}
