package handler

import (
	"strings"

	gstapp "github.com/jewelerp/backend/internal/application/gst"
	"github.com/gin-gonic/gin"
)

// GSTHandler handles GST return and reconciliation API endpoints
type GSTHandler struct {
	BaseHandler
	gstService *gstapp.GSTService
}

// NewGSTHandler creates a new GSTHandler
func NewGSTHandler(gstService *gstapp.GSTService) *GSTHandler {
	return &GSTHandler{
		gstService: gstService,
	}
}

// GSTR1 godoc
// @Summary      GSTR-1 report
// @Description  Aggregates outward supplies for a filing period into B2B and B2C sections
// @Tags         gst
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Success      200 {object} dto.Response{data=gst.GSTR1Summary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/returns/gstr1 [get]
func (h *GSTHandler) GSTR1(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	report, err := h.gstService.GSTR1Report(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// GSTR3B godoc
// @Summary      GSTR-3B report
// @Description  Summarises outward tax liability and eligible ITC for a filing period
// @Tags         gst
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Success      200 {object} dto.Response{data=gst.GSTR3BSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/returns/gstr3b [get]
func (h *GSTHandler) GSTR3B(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	report, err := h.gstService.GSTR3BReport(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// HSN godoc
// @Summary      HSN summary
// @Description  Groups outward supplies by HSN code for the GSTR-1 HSN annexure
// @Tags         gst
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Success      200 {object} dto.Response{data=gst.HSNSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/returns/hsn [get]
func (h *GSTHandler) HSN(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	report, err := h.gstService.HSNReport(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// ImportGSTR2A godoc
// @Summary      Import a GSTR-2A statement
// @Description  Replaces the stored GSTR-2A records for the period with the uploaded portal export
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Param        payload body object true "Portal JSON export"
// @Success      200 {object} dto.Response{data=gstapp.ImportStatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/statements/2a [post]
func (h *GSTHandler) ImportGSTR2A(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	result, err := h.gstService.ImportGSTR2A(c.Request.Context(), tenantID, c.Query("period"), payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ImportGSTR2B godoc
// @Summary      Import a GSTR-2B statement
// @Description  Replaces the stored GSTR-2B records for the period with the uploaded portal export
// @Tags         gst
// @Accept       json
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Param        payload body object true "Portal JSON export"
// @Success      200 {object} dto.Response{data=gstapp.ImportStatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/statements/2b [post]
func (h *GSTHandler) ImportGSTR2B(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	result, err := h.gstService.ImportGSTR2B(c.Request.Context(), tenantID, c.Query("period"), payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reconcile godoc
// @Summary      Reconcile purchases against the portal statements
// @Description  Matches local purchase records against the imported GSTR-2A and GSTR-2B statements for the period and computes the claimable ITC split
// @Tags         gst
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Success      200 {object} dto.Response{data=gst.ReconciliationResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/reconciliation [post]
func (h *GSTHandler) Reconcile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.gstService.Reconcile(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ITCSummary godoc
// @Summary      Input tax credit summary
// @Description  Totals ITC-eligible purchase tax for the period, split by head
// @Tags         gst
// @Produce      json
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Success      200 {object} dto.Response{data=gstapp.ITCSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/itc-summary [get]
func (h *GSTHandler) ITCSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.gstService.ITCSummary(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// ListStatements godoc
// @Summary      List imported statement records
// @Description  Returns one page of the period's imported GSTR-2A or GSTR-2B records
// @Tags         gst
// @Produce      json
// @Param        source path string true "Statement source" Enums(2a, 2b)
// @Param        period query string true "Filing period MMYYYY" example(042025)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]gstapp.StatementRecordResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /gst/statements/{source} [get]
func (h *GSTHandler) ListStatements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter gstapp.StatementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	source := strings.ToUpper(c.Param("source"))
	records, total, err := h.gstService.ListStatements(c.Request.Context(), tenantID, source, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}
