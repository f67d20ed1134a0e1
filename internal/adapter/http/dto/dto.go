package dto

import (
	"time"

	"skin-marketplace/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- Auth DTOs ---

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128,strong_password" sanitize:"-"`
}

// RegisterResponse is the response body for POST /api/v1/auth/register.
type RegisterResponse struct {
	AccountID string `json:"account_id"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LoginResponse is the response body for POST /api/v1/auth/login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"`
}

// --- Account DTOs ---

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse converts a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Balance:   Money(a.Balance),
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}

// DepositRequest is the request body for POST /api/v1/wallet/deposit.
// Amount accepts a JSON number or a decimal string.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// DepositResponse is the response body for POST /api/v1/wallet/deposit.
type DepositResponse struct {
	Balance string `json:"balance"`
}

// LedgerEntryResponse is one row of the transaction history.
type LedgerEntryResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLedgerEntryResponses converts journal entries, newest first as returned.
func NewLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerEntryResponse{
			ID:        e.ID.String(),
			Amount:    Money(e.Amount),
			Kind:      string(e.Kind),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// --- Item DTOs ---

// CreateItemRequest is the request body for POST /api/v1/admin/items.
type CreateItemRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Category string  `json:"category" binding:"required,min=1,max=50"`
	Wear     string  `json:"wear" binding:"required,wear"`
	ImageURL string  `json:"image_url" binding:"omitempty,max=512,safe_url"`
	OwnerID  *string `json:"owner_id" binding:"omitempty,uuid"`
}

// EditItemRequest is the request body for PATCH /api/v1/admin/items/:id.
// Absent fields are left unchanged.
type EditItemRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Category *string `json:"category" binding:"omitempty,min=1,max=50"`
	Wear     *string `json:"wear" binding:"omitempty,wear"`
	ImageURL *string `json:"image_url" binding:"omitempty,max=512,safe_url"`
}

// ToPatch converts the request into a domain patch.
func (r EditItemRequest) ToPatch() domain.ItemPatch {
	patch := domain.ItemPatch{
		Name:     r.Name,
		Category: r.Category,
		ImageURL: r.ImageURL,
	}
	if r.Wear != nil {
		w := domain.Wear(*r.Wear)
		patch.Wear = &w
	}
	return patch
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Wear      string    `json:"wear"`
	ImageURL  string    `json:"image_url,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewItemResponse converts a domain item.
func NewItemResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID.String(),
		Name:      i.Name,
		Category:  i.Category,
		Wear:      string(i.Wear),
		ImageURL:  i.ImageURL,
		OwnerID:   i.OwnerID.String(),
		CreatedAt: i.CreatedAt,
	}
}

// NewItemResponses converts a slice of domain items.
func NewItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

// --- Marketplace DTOs ---

// CreateListingRequest is the request body for POST /api/v1/marketplace/listings.
type CreateListingRequest struct {
	ItemID string          `json:"item_id" binding:"required,uuid"`
	Price  decimal.Decimal `json:"price"`
}

// CreateListingResponse is the response body for POST /api/v1/marketplace/listings.
type CreateListingResponse struct {
	ListingID string `json:"listing_id"`
}

// CancelListingResponse is the response body for DELETE /api/v1/marketplace/listings/:id.
type CancelListingResponse struct {
	ListingID string `json:"listing_id"`
	Cancelled bool   `json:"cancelled"`
}

// ListingResponse is a listing joined with its item.
type ListingResponse struct {
	ID        string       `json:"id"`
	Price     string       `json:"price"`
	CreatedAt time.Time    `json:"created_at"`
	Item      ItemResponse `json:"item"`
}

// NewListingResponses converts listing views.
func NewListingResponses(views []domain.ListingView) []ListingResponse {
	out := make([]ListingResponse, 0, len(views))
	for i := range views {
		v := &views[i]
		out = append(out, ListingResponse{
			ID:        v.ID.String(),
			Price:     Money(v.Price),
			CreatedAt: v.CreatedAt,
			Item:      NewItemResponse(&v.Item),
		})
	}
	return out
}

// ReceiptResponse is the response body for a completed purchase.
type ReceiptResponse struct {
	ListingID    string    `json:"listing_id"`
	ItemID       string    `json:"item_id"`
	SellerID     string    `json:"seller_id"`
	Price        string    `json:"price"`
	BuyerBalance string    `json:"buyer_balance"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

// NewReceiptResponse converts a purchase receipt.
func NewReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ListingID:    r.ListingID.String(),
		ItemID:       r.ItemID.String(),
		SellerID:     r.SellerID.String(),
		Price:        Money(r.Price),
		BuyerBalance: Money(r.BuyerBalance),
		PurchasedAt:  r.PurchasedAt,
	}
}

// Money renders an amount with exactly two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
