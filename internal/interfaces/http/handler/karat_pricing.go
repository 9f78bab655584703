package handler

import (
	pricingapp "github.com/jewelerp/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// KaratPricingHandler handles karat pricing API endpoints
type KaratPricingHandler struct {
	BaseHandler
	pricingService *pricingapp.KaratPricingService
}

// NewKaratPricingHandler creates a new KaratPricingHandler
func NewKaratPricingHandler(pricingService *pricingapp.KaratPricingService) *KaratPricingHandler {
	return &KaratPricingHandler{
		pricingService: pricingService,
	}
}

// InitializeDefaultsRequest seeds pricing rows for every karat grade
// from a single 24K base rate
// @Description Request body for seeding default karat pricing
type InitializeDefaultsRequest struct {
	Rate24K decimal.Decimal `json:"rate_24k" binding:"required" example:"7250.00"`
}

// Upsert godoc
// @Summary      Create or replace karat pricing
// @Description  Upserts the pricing configuration for a karat grade
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.UpsertKaratPricingRequest true "Karat pricing request"
// @Success      200 {object} dto.Response{data=pricingapp.KaratPricingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats [put]
func (h *KaratPricingHandler) Upsert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req pricingapp.UpsertKaratPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pricing, err := h.pricingService.Upsert(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pricing)
}

// List godoc
// @Summary      List karat pricing
// @Description  Lists pricing configuration for all karat grades, lowest karat first
// @Tags         pricing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]pricingapp.KaratPricingResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats [get]
func (h *KaratPricingHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	pricings, err := h.pricingService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pricings)
}

// GetByKarat godoc
// @Summary      Get karat pricing
// @Description  Retrieves the pricing configuration for a single karat grade
// @Tags         pricing
// @Produce      json
// @Param        karat path string true "Karat grade" example(22K)
// @Success      200 {object} dto.Response{data=pricingapp.KaratPricingResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats/{karat} [get]
func (h *KaratPricingHandler) GetByKarat(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	pricing, err := h.pricingService.GetByKarat(c.Request.Context(), tenantID, c.Param("karat"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, pricing)
}

// Delete godoc
// @Summary      Delete karat pricing
// @Description  Removes the pricing configuration for a karat grade
// @Tags         pricing
// @Produce      json
// @Param        karat path string true "Karat grade" example(18K)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats/{karat} [delete]
func (h *KaratPricingHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.pricingService.Delete(c.Request.Context(), tenantID, c.Param("karat")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// InitializeDefaults godoc
// @Summary      Seed default karat pricing
// @Description  Creates one pricing row per karat grade derived from a 24K base rate
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body InitializeDefaultsRequest true "24K base rate"
// @Success      201 {object} dto.Response{data=[]pricingapp.KaratPricingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats/initialize [post]
func (h *KaratPricingHandler) InitializeDefaults(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req InitializeDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pricings, err := h.pricingService.InitializeDefaults(c.Request.Context(), tenantID, req.Rate24K)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, pricings)
}

// Quote godoc
// @Summary      Calculate a price quote
// @Description  Prices a jewellery item from weight, karat rate, making charge, wastage and GST
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.CalculateQuoteRequest true "Quote request"
// @Success      200 {object} dto.Response{data=pricingapp.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/quote [post]
func (h *KaratPricingHandler) Quote(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req pricingapp.CalculateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.pricingService.CalculateQuote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quote)
}

// ApplyToProducts reprices the catalog from the current karat pricing
// @Summary      Apply karat rates to products
// @Description  Recomputes every weighed product's selling price from its karat's pricing configuration
// @Tags         pricing
// @Produce      json
// @Success      200 {object} dto.Response{data=pricingapp.RepriceProductsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/karats/apply-to-products [post]
func (h *KaratPricingHandler) ApplyToProducts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.pricingService.ApplyRatesToProducts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
