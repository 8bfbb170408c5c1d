package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/middleware"
	"github.com/irurudev/nexus-pos/internal/service"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create godoc
// @Summary      Create a customer
// @Description  Mints a new customer code (PGN001, PGN002, ...) unless one is supplied.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer detail"
// @Success      201 {object} dto.CustomerResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a customer by code
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Customer code"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/{code} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("customer not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Code or name substring"
// @Param        region query string false "Region filter"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 15)"
// @Success      200 {object} dto.CustomerListResponse
// @Router       /v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	var filter dto.CustomerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Customer code"
// @Param        body body dto.UpdateCustomerRequest true "Fields to update"
// @Success      200 {object} dto.CustomerResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/customers/{code} [put]
func (h *CustomersHandler) Update(c *gin.Context) {
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Update(c.Request.Context(), claims.UserID, c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Soft-delete a customer
// @Description  Historical sales keep their reference to the customer code.
// @Tags         customers
// @Security     BearerAuth
// @Param        code path string true "Customer code"
// @Success      204
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/customers/{code} [delete]
func (h *CustomersHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.Delete(c.Request.Context(), claims.UserID, c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
