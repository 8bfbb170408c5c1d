package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/middleware"
	"github.com/irurudev/nexus-pos/internal/service"
)

type ItemsHandler struct {
	svc       service.ItemService
	inventory service.InventoryService
}

func NewItemsHandler(svc service.ItemService, inventory service.InventoryService) *ItemsHandler {
	return &ItemsHandler{svc: svc, inventory: inventory}
}

// Create godoc
// @Summary      Create a catalog item
// @Description  Mints a new item code (BRG001, BRG002, ...) unless one is supplied.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateItemRequest true "Item detail"
// @Success      201 {object} dto.ItemResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
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
// @Summary      Get an item by code
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Item code"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{code} [get]
func (h *ItemsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("item not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List catalog items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search      query string false "Code or name substring"
// @Param        category_id query int    false "Category id"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 15)"
// @Success      200 {object} dto.ItemListResponse
// @Router       /v1/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
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
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Item code"
// @Param        body body dto.UpdateItemRequest true "Fields to update"
// @Success      200 {object} dto.ItemResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items/{code} [put]
func (h *ItemsHandler) Update(c *gin.Context) {
	var req dto.UpdateItemRequest
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
// @Summary      Soft-delete an item
// @Description  Historical sale lines keep their snapshot of the item.
// @Tags         items
// @Security     BearerAuth
// @Param        code path string true "Item code"
// @Success      204
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items/{code} [delete]
func (h *ItemsHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.Delete(c.Request.Context(), claims.UserID, c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Apply a manual stock adjustment
// @Description  Applies a signed delta under a row lock and records the movement. The delta may not take stock below zero.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Item code"
// @Param        body body dto.AdjustStockRequest true "Delta and reason"
// @Success      200 {object} dto.ItemResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/items/{code}/stock [post]
func (h *ItemsHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.inventory.AdjustStock(c.Request.Context(), claims.UserID, c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List stock movements of an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        code  path  string true  "Item code"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.StockMovementListResponse
// @Router       /v1/items/{code}/movements [get]
func (h *ItemsHandler) Movements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.inventory.ListMovements(c.Request.Context(), c.Param("code"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
