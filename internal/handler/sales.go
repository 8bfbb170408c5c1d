package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/infra"
	"github.com/irurudev/nexus-pos/internal/middleware"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/service"
)

type SalesHandler struct {
	svc         service.SaleService
	sales       repository.SaleRepository
	storagePath string
}

func NewSalesHandler(svc service.SaleService, sales repository.SaleRepository, storagePath string) *SalesHandler {
	return &SalesHandler{svc: svc, sales: sales, storagePath: storagePath}
}

// CreateSale godoc
// @Summary      Commit a sale transaction
// @Description  Atomically mints the invoice id, validates and decrements stock, and persists the sale with its line items. Stock rows are locked in submitted order; the whole operation commits or rolls back as one unit.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      422  {object} apierror.ValidationError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.CreateSale(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSale godoc
// @Summary      Get a sale by invoice id
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        invoice_id path string true "Invoice id, e.g. INV20250101-0007"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{invoice_id} [get]
func (h *SalesHandler) GetSale(c *gin.Context) {
	resp, err := h.svc.GetSale(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		var vErr *apierror.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusNotFound, apierror.New("sale not found"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSales godoc
// @Summary      List sales
// @Description  Paginated sales filtered by date range, cashier and invoice id search.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Param        cashier_id query int    false "Cashier user id"
// @Param        search     query string false "Invoice id substring"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Rows per page (default 15)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt godoc
// @Summary      Download the PDF receipt of a sale
// @Tags         sales
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        invoice_id path string true "Invoice id"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{invoice_id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	sale, err := h.sales.FindByInvoiceID(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	pdfPath, err := infra.GenerateReceiptPDF(sale, h.storagePath)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render receipt"))
		return
	}
	c.FileAttachment(pdfPath, "receipt_"+sale.InvoiceID+".pdf")
}
