package handler

import (
	"skin-marketplace/internal/adapter/http/dto"
	"skin-marketplace/internal/adapter/http/middleware"
	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"
	"skin-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles catalog management. Routes are mounted behind RequireAdmin.
type AdminHandler struct {
	inventory ports.InventoryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(inventory ports.InventoryService) *AdminHandler {
	return &AdminHandler{inventory: inventory}
}

// ListItems handles GET /api/v1/admin/items.
func (h *AdminHandler) ListItems(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	items, err := h.inventory.ListCatalog(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewItemResponses(items))
}

// CreateItem handles POST /api/v1/admin/items.
func (h *AdminHandler) CreateItem(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.CreateItemRequest{
		Name:     req.Name,
		Category: req.Category,
		Wear:     domain.Wear(req.Wear),
		ImageURL: req.ImageURL,
	}
	if req.OwnerID != nil {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid owner_id: must be a UUID"))
			return
		}
		in.OwnerID = &ownerID
	}

	item, err := h.inventory.CreateItem(c.Request.Context(), caller, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetResourceID(c, item.ID)
	response.Created(c, dto.NewItemResponse(item))
}

// EditItem handles PATCH /api/v1/admin/items/:id.
func (h *AdminHandler) EditItem(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	item, err := h.inventory.EditItem(c.Request.Context(), caller, itemID, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewItemResponse(item))
}

// DeleteItem handles DELETE /api/v1/admin/items/:id.
func (h *AdminHandler) DeleteItem(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventory.DeleteItem(c.Request.Context(), caller, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"item_id": itemID.String(), "deleted": true})
}
