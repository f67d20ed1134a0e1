package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/internal/core/ports/mocks"
	"skin-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	playerToken = "player-token"
	adminToken  = "admin-token"
)

var (
	playerID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	adminID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
)

type routerTestDeps struct {
	router    *gin.Engine
	auth      *mocks.MockAuthService
	accounts  *mocks.MockAccountService
	inventory *mocks.MockInventoryService
	market    *mocks.MockMarketplaceService
	journal   *mocks.MockJournalService
	audited   []*domain.AuditLog
}

func setupRouter(t *testing.T, checkers ...ports.HealthChecker) *routerTestDeps {
	ctrl := gomock.NewController(t)
	d := &routerTestDeps{
		auth:      mocks.NewMockAuthService(ctrl),
		accounts:  mocks.NewMockAccountService(ctrl),
		inventory: mocks.NewMockInventoryService(ctrl),
		market:    mocks.NewMockMarketplaceService(ctrl),
		journal:   mocks.NewMockJournalService(ctrl),
	}

	auditSvc := mocks.NewMockAuditService(ctrl)
	auditSvc.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		d.audited = append(d.audited, entry)
	}).AnyTimes()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate(playerToken).Return(&ports.TokenClaims{AccountID: playerID, Role: domain.RolePlayer}, nil).AnyTimes()
	tokenSvc.EXPECT().Validate(adminToken).Return(&ports.TokenClaims{AccountID: adminID, Role: domain.RoleAdmin}, nil).AnyTimes()
	tokenSvc.EXPECT().Validate(gomock.Any()).Return(nil, errors.New("token is malformed")).AnyTimes()

	d.router = SetupRouter(RouterDeps{
		AuthSvc:        d.auth,
		AccountSvc:     d.accounts,
		InventorySvc:   d.inventory,
		MarketSvc:      d.market,
		JournalSvc:     d.journal,
		TokenSvc:       tokenSvc,
		HealthCheckers: checkers,
		AuditSvc:       auditSvc,
		Logger:         zerolog.Nop(),
	})
	return d
}

func (d *routerTestDeps) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func decEq(s string) gomock.Matcher {
	want := decimal.RequireFromString(s)
	return gomock.Cond(func(x any) bool {
		d, ok := x.(decimal.Decimal)
		return ok && d.Equal(want)
	})
}

func sampleItem(owner uuid.UUID) domain.Item {
	return domain.Item{
		ID:        uuid.New(),
		Name:      "AK-47 | Redline",
		Category:  "Rifle",
		Wear:      domain.WearFieldTested,
		OwnerID:   owner,
		CreatedAt: time.Now(),
	}
}

// --- Auth ---

func TestRegister_Success(t *testing.T) {
	d := setupRouter(t)
	newID := uuid.New()

	d.auth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: " S3cret-pass ",
	}).Return(newID, nil)

	w := d.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "  alice ",
		"email":    "alice@example.com",
		"password": " S3cret-pass ",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, newID.String(), dataOf(t, w)["account_id"])
}

func TestRegister_ValidationError(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":  "alice",
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["error_code"])
}

func TestRegister_WeakPassword(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["error_code"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	d := setupRouter(t)
	d.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(uuid.Nil, apperror.ErrDuplicateEmail())

	w := d.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "alice",
		"email":    "alice@example.com",
		"password": "Passw0rd!123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode(t, w)["error_code"])
}

func TestLogin_Success(t *testing.T) {
	d := setupRouter(t)
	expiry := time.Now().Add(time.Hour)
	d.auth.EXPECT().Login(gomock.Any(), "alice@example.com", "password123").Return("jwt.token.here", expiry, nil)

	w := d.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Equal(t, "jwt.token.here", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	d := setupRouter(t)
	d.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w := d.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w)["error_code"])
}

// --- Accounts and wallet ---

func TestProtectedRoute_RequiresToken(t *testing.T) {
	d := setupRouter(t)

	for _, path := range []string{"/api/v1/accounts/me", "/api/v1/inventory", "/api/v1/marketplace/listings"} {
		w := d.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := d.do(http.MethodGet, "/api/v1/accounts/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_Success(t *testing.T) {
	d := setupRouter(t)
	d.accounts.EXPECT().GetByIdentity(gomock.Any(), playerID).Return(&domain.Account{
		ID:           playerID,
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$secret",
		Balance:      decimal.RequireFromString("100.5"),
		Role:         domain.RolePlayer,
	}, nil)

	w := d.do(http.MethodGet, "/api/v1/accounts/me", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Equal(t, "100.50", data["balance"])
	assert.Equal(t, "player", data["role"])
	assert.NotContains(t, w.Body.String(), "argon2id")
}

func TestDeposit_Success(t *testing.T) {
	d := setupRouter(t)
	d.accounts.EXPECT().Deposit(gomock.Any(), playerID, decEq("40")).Return(decimal.RequireFromString("140"), nil)

	w := d.do(http.MethodPost, "/api/v1/wallet/deposit", playerToken, `{"amount": 40.00}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "140.00", dataOf(t, w)["balance"])
}

func TestDeposit_AcceptsStringAmount(t *testing.T) {
	d := setupRouter(t)
	d.accounts.EXPECT().Deposit(gomock.Any(), playerID, decEq("12.34")).Return(decimal.RequireFromString("12.34"), nil)

	w := d.do(http.MethodPost, "/api/v1/wallet/deposit", playerToken, `{"amount": "12.34"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeposit_InvalidAmount(t *testing.T) {
	d := setupRouter(t)
	d.accounts.EXPECT().Deposit(gomock.Any(), playerID, decEq("-5")).Return(decimal.Zero, apperror.ErrInvalidAmount())

	w := d.do(http.MethodPost, "/api/v1/wallet/deposit", playerToken, `{"amount": -5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_AMOUNT", decode(t, w)["error_code"])
}

func TestDeposit_MalformedBody(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/wallet/deposit", playerToken, `{"amount": "forty"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["error_code"])
}

func TestHistory_Success(t *testing.T) {
	d := setupRouter(t)
	d.journal.EXPECT().History(gomock.Any(), playerID).Return([]domain.LedgerEntry{
		{ID: uuid.New(), AccountID: playerID, Amount: decimal.NewFromInt(-40), Kind: domain.EntryKindPurchase},
		{ID: uuid.New(), AccountID: playerID, Amount: decimal.NewFromInt(100), Kind: domain.EntryKindDeposit},
	}, nil)

	w := d.do(http.MethodGet, "/api/v1/transactions/history", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	entries := decode(t, w)["data"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "-40.00", first["amount"])
	assert.Equal(t, "purchase", first["kind"])
}

func TestInventory_Empty(t *testing.T) {
	d := setupRouter(t)
	d.inventory.EXPECT().ListOwned(gomock.Any(), playerID).Return(nil, nil)

	w := d.do(http.MethodGet, "/api/v1/inventory", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])
}

func TestOwnerItems(t *testing.T) {
	d := setupRouter(t)
	owner := uuid.New()
	d.inventory.EXPECT().ListByOwner(gomock.Any(), owner).Return([]domain.Item{sampleItem(owner)}, nil)

	w := d.do(http.MethodGet, "/api/v1/accounts/"+owner.String()+"/items", playerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = d.do(http.MethodGet, "/api/v1/accounts/not-a-uuid/items", playerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Marketplace ---

func TestBrowse_Success(t *testing.T) {
	d := setupRouter(t)
	seller := uuid.New()
	item := sampleItem(seller)
	d.market.EXPECT().Browse(gomock.Any(), domain.Caller{AccountID: playerID, Role: domain.RolePlayer}).Return([]domain.ListingView{
		{Listing: domain.Listing{ID: uuid.New(), ItemID: item.ID, Price: decimal.NewFromInt(40)}, Item: item},
	}, nil)

	w := d.do(http.MethodGet, "/api/v1/marketplace/listings", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	listings := decode(t, w)["data"].([]interface{})
	require.Len(t, listings, 1)
	first := listings[0].(map[string]interface{})
	assert.Equal(t, "40.00", first["price"])
	assert.Equal(t, "AK-47 | Redline", first["item"].(map[string]interface{})["name"])
}

func TestMine_RoutesToMyListings(t *testing.T) {
	d := setupRouter(t)
	d.market.EXPECT().MyListings(gomock.Any(), gomock.Any()).Return(nil, nil)

	w := d.do(http.MethodGet, "/api/v1/marketplace/listings/mine", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateListing_Success(t *testing.T) {
	d := setupRouter(t)
	itemID := uuid.New()
	listingID := uuid.New()
	d.market.EXPECT().CreateListing(gomock.Any(), gomock.Any(), itemID, decEq("40")).Return(listingID, nil)

	w := d.do(http.MethodPost, "/api/v1/marketplace/listings", playerToken, map[string]interface{}{
		"item_id": itemID.String(),
		"price":   "40.00",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, listingID.String(), dataOf(t, w)["listing_id"])
}

func TestCreateRoutes_AuditCreatedResource(t *testing.T) {
	listingID := uuid.New()
	itemID := uuid.New()
	newAccountID := uuid.New()

	tests := []struct {
		name      string
		prepareFn func(d *routerTestDeps)
		method    string
		path      string
		token     string
		body      interface{}
		wantID    string
	}{
		{
			name: "create listing",
			prepareFn: func(d *routerTestDeps) {
				d.market.EXPECT().CreateListing(gomock.Any(), gomock.Any(), itemID, gomock.Any()).Return(listingID, nil)
			},
			method: http.MethodPost,
			path:   "/api/v1/marketplace/listings",
			token:  playerToken,
			body:   map[string]interface{}{"item_id": itemID.String(), "price": "40.00"},
			wantID: listingID.String(),
		},
		{
			name: "deposit",
			prepareFn: func(d *routerTestDeps) {
				d.accounts.EXPECT().Deposit(gomock.Any(), playerID, gomock.Any()).Return(decimal.NewFromInt(50), nil)
			},
			method: http.MethodPost,
			path:   "/api/v1/wallet/deposit",
			token:  playerToken,
			body:   map[string]interface{}{"amount": "50"},
			wantID: playerID.String(),
		},
		{
			name: "admin create item",
			prepareFn: func(d *routerTestDeps) {
				d.inventory.EXPECT().CreateItem(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.Item{ID: itemID, OwnerID: adminID, Wear: domain.WearFactoryNew}, nil)
			},
			method: http.MethodPost,
			path:   "/api/v1/admin/items",
			token:  adminToken,
			body:   map[string]interface{}{"name": "AWP | Asiimov", "category": "Sniper", "wear": "Factory New"},
			wantID: itemID.String(),
		},
		{
			name: "register",
			prepareFn: func(d *routerTestDeps) {
				d.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(newAccountID, nil)
			},
			method: http.MethodPost,
			path:   "/api/v1/auth/register",
			body:   map[string]interface{}{"name": "alice", "email": "alice@example.com", "password": "Str0ng!pass"},
			wantID: newAccountID.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupRouter(t)
			tt.prepareFn(d)

			w := d.do(tt.method, tt.path, tt.token, tt.body)
			require.Less(t, w.Code, 300, w.Body.String())
			require.Len(t, d.audited, 1)
			assert.Equal(t, tt.wantID, d.audited[0].ResourceID)
		})
	}
}

func TestCreateListing_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already listed", apperror.ErrAlreadyListed(), http.StatusConflict, "ALREADY_LISTED"},
		{"not owner", apperror.ErrNotOwner(), http.StatusConflict, "NOT_OWNER"},
		{"invalid price", apperror.ErrInvalidPrice(), http.StatusBadRequest, "INVALID_PRICE"},
		{"item busy", apperror.ErrItemBusy(errors.New("lock held")), http.StatusConflict, "ITEM_BUSY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupRouter(t)
			d.market.EXPECT().CreateListing(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(uuid.Nil, tt.err)

			w := d.do(http.MethodPost, "/api/v1/marketplace/listings", playerToken, map[string]interface{}{
				"item_id": uuid.NewString(),
				"price":   1,
			})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error_code"])
		})
	}
}

func TestCreateListing_BadItemID(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/marketplace/listings", playerToken, map[string]interface{}{
		"item_id": "abc",
		"price":   10,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelListing(t *testing.T) {
	d := setupRouter(t)
	listingID := uuid.New()
	d.market.EXPECT().CancelListing(gomock.Any(), domain.Caller{AccountID: playerID, Role: domain.RolePlayer}, listingID).Return(nil)
	d.market.EXPECT().CancelListing(gomock.Any(), gomock.Any(), listingID).Return(apperror.ErrListingNotFound())

	w := d.do(http.MethodDelete, "/api/v1/marketplace/listings/"+listingID.String(), playerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataOf(t, w)["cancelled"])

	w = d.do(http.MethodDelete, "/api/v1/marketplace/listings/"+listingID.String(), playerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "LISTING_NOT_FOUND", decode(t, w)["error_code"])
}

func TestPurchase_Success(t *testing.T) {
	d := setupRouter(t)
	listingID := uuid.New()
	d.market.EXPECT().Purchase(gomock.Any(), domain.Caller{AccountID: playerID, Role: domain.RolePlayer}, listingID).Return(&domain.Receipt{
		ListingID:    listingID,
		ItemID:       uuid.New(),
		BuyerID:      playerID,
		SellerID:     uuid.New(),
		Price:        decimal.NewFromInt(40),
		BuyerBalance: decimal.NewFromInt(60),
		PurchasedAt:  time.Now(),
	}, nil)

	w := d.do(http.MethodPost, "/api/v1/marketplace/listings/"+listingID.String()+"/purchase", playerToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Equal(t, "40.00", data["price"])
	assert.Equal(t, "60.00", data["buyer_balance"])
}

func TestPurchase_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient funds", apperror.ErrInsufficientFunds(), http.StatusBadRequest, "INSUFFICIENT_FUNDS"},
		{"listing gone", apperror.ErrListingNotFound(), http.StatusNotFound, "LISTING_NOT_FOUND"},
		{"self purchase", apperror.ErrSelfPurchase(), http.StatusConflict, "SELF_PURCHASE"},
		{"fatal", apperror.FatalConsistency("listing references missing item"), http.StatusInternalServerError, "FATAL_CONSISTENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupRouter(t)
			d.market.EXPECT().Purchase(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := d.do(http.MethodPost, "/api/v1/marketplace/listings/"+uuid.NewString()+"/purchase", playerToken, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error_code"])
		})
	}
}

func TestPurchase_BadListingID(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/marketplace/listings/xyz/purchase", playerToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin ---

func TestAdminRoutes_ForbiddenForPlayers(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodGet, "/api/v1/admin/items", playerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ADMIN_ONLY", decode(t, w)["error_code"])

	w = d.do(http.MethodDelete, "/api/v1/admin/items/"+uuid.NewString(), playerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListItems(t *testing.T) {
	d := setupRouter(t)
	d.inventory.EXPECT().ListCatalog(gomock.Any(), domain.Caller{AccountID: adminID, Role: domain.RoleAdmin}).Return([]domain.Item{sampleItem(playerID), sampleItem(adminID)}, nil)

	w := d.do(http.MethodGet, "/api/v1/admin/items", adminToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)
}

func TestAdminCreateItem_Success(t *testing.T) {
	d := setupRouter(t)
	item := sampleItem(playerID)
	d.inventory.EXPECT().CreateItem(gomock.Any(), gomock.Any(), ports.CreateItemRequest{
		Name:     "AK-47 | Redline",
		Category: "Rifle",
		Wear:     domain.WearFieldTested,
		OwnerID:  &playerID,
	}).Return(&item, nil)

	w := d.do(http.MethodPost, "/api/v1/admin/items", adminToken, map[string]interface{}{
		"name":     "AK-47 | Redline",
		"category": "Rifle",
		"wear":     "Field-Tested",
		"owner_id": playerID.String(),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, item.ID.String(), dataOf(t, w)["id"])
}

func TestAdminCreateItem_UnknownWear(t *testing.T) {
	d := setupRouter(t)

	w := d.do(http.MethodPost, "/api/v1/admin/items", adminToken, map[string]interface{}{
		"name":     "Glock-18 | Fade",
		"category": "Pistol",
		"wear":     "Pristine",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["error_code"])
}

func TestAdminEditItem(t *testing.T) {
	d := setupRouter(t)
	item := sampleItem(playerID)
	item.Wear = domain.WearMinimalWear

	d.inventory.EXPECT().EditItem(gomock.Any(), gomock.Any(), item.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.Caller, _ uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
			require.NotNil(t, patch.Wear)
			assert.Equal(t, domain.WearMinimalWear, *patch.Wear)
			assert.Nil(t, patch.Name)
			return &item, nil
		},
	)

	w := d.do(http.MethodPatch, "/api/v1/admin/items/"+item.ID.String(), adminToken, map[string]interface{}{
		"wear": "Minimal Wear",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Minimal Wear", dataOf(t, w)["wear"])
}

func TestAdminEditItem_EmptyPatch(t *testing.T) {
	d := setupRouter(t)
	d.inventory.EXPECT().EditItem(gomock.Any(), gomock.Any(), gomock.Any(), domain.ItemPatch{}).Return(nil, apperror.ErrEmptyPatch())

	w := d.do(http.MethodPatch, "/api/v1/admin/items/"+uuid.NewString(), adminToken, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_PATCH", decode(t, w)["error_code"])
}

func TestAdminDeleteItem(t *testing.T) {
	d := setupRouter(t)
	itemID := uuid.New()
	d.inventory.EXPECT().DeleteItem(gomock.Any(), gomock.Any(), itemID).Return(nil)

	w := d.do(http.MethodDelete, "/api/v1/admin/items/"+itemID.String(), adminToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataOf(t, w)["deleted"])
}

// --- Health ---

func TestHealthCheck_AllHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()

	d := setupRouter(t, pg)
	w := d.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgresql"].(map[string]interface{})["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rd.EXPECT().Name().Return("redis").AnyTimes()

	d := setupRouter(t, pg, rd)
	w := d.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
}

func TestRequestID_EchoedInEnvelope(t *testing.T) {
	d := setupRouter(t)
	d.inventory.EXPECT().ListOwned(gomock.Any(), playerID).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+playerToken)
	req.Header.Set("X-Request-ID", "req-from-client")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)

	assert.Equal(t, "req-from-client", decode(t, w)["request_id"])
}
