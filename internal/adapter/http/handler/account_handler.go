package handler

import (
	"skin-marketplace/internal/adapter/http/dto"
	"skin-marketplace/internal/adapter/http/middleware"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"
	"skin-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the caller's account, wallet, inventory and history.
type AccountHandler struct {
	accounts  ports.AccountService
	inventory ports.InventoryService
	journal   ports.JournalService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts ports.AccountService, inventory ports.InventoryService, journal ports.JournalService) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		inventory: inventory,
		journal:   journal,
	}
}

// Me handles GET /api/v1/accounts/me.
func (h *AccountHandler) Me(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	account, err := h.accounts.GetByIdentity(c.Request.Context(), caller.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewAccountResponse(account))
}

// Deposit handles POST /api/v1/wallet/deposit.
func (h *AccountHandler) Deposit(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.accounts.Deposit(c.Request.Context(), caller.AccountID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetResourceID(c, caller.AccountID)
	response.OK(c, dto.DepositResponse{Balance: dto.Money(balance)})
}

// History handles GET /api/v1/transactions/history.
func (h *AccountHandler) History(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	entries, err := h.journal.History(c.Request.Context(), caller.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewLedgerEntryResponses(entries))
}

// Inventory handles GET /api/v1/inventory.
func (h *AccountHandler) Inventory(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	items, err := h.inventory.ListOwned(c.Request.Context(), caller.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewItemResponses(items))
}

// OwnerItems handles GET /api/v1/accounts/:id/items.
func (h *AccountHandler) OwnerItems(c *gin.Context) {
	ownerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	items, err := h.inventory.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewItemResponses(items))
}
