package handler

import (
	"skin-marketplace/internal/adapter/http/dto"
	"skin-marketplace/internal/adapter/http/middleware"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"
	"skin-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MarketplaceHandler handles the listing lifecycle and purchases.
type MarketplaceHandler struct {
	market ports.MarketplaceService
}

// NewMarketplaceHandler creates a new MarketplaceHandler.
func NewMarketplaceHandler(market ports.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{market: market}
}

// Browse handles GET /api/v1/marketplace/listings.
func (h *MarketplaceHandler) Browse(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	views, err := h.market.Browse(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewListingResponses(views))
}

// Mine handles GET /api/v1/marketplace/listings/mine.
func (h *MarketplaceHandler) Mine(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	views, err := h.market.MyListings(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewListingResponses(views))
}

// Create handles POST /api/v1/marketplace/listings.
func (h *MarketplaceHandler) Create(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid item_id: must be a UUID"))
		return
	}

	listingID, err := h.market.CreateListing(c.Request.Context(), caller, itemID, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetResourceID(c, listingID)
	response.Created(c, dto.CreateListingResponse{ListingID: listingID.String()})
}

// Cancel handles DELETE /api/v1/marketplace/listings/:id.
func (h *MarketplaceHandler) Cancel(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	listingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.market.CancelListing(c.Request.Context(), caller, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CancelListingResponse{ListingID: listingID.String(), Cancelled: true})
}

// Purchase handles POST /api/v1/marketplace/listings/:id/purchase.
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	listingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.market.Purchase(c.Request.Context(), caller, listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewReceiptResponse(receipt))
}
