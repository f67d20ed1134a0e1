package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// InventoryManager owns item ownership and the admin catalog.
type InventoryManager struct {
	itemRepo    ports.ItemRepository
	listingRepo ports.ListingRepository
	accountRepo ports.AccountRepository
	transactor  ports.Transactor
	log         zerolog.Logger
}

// NewInventoryManager creates a new InventoryManager.
func NewInventoryManager(
	itemRepo ports.ItemRepository,
	listingRepo ports.ListingRepository,
	accountRepo ports.AccountRepository,
	transactor ports.Transactor,
	log zerolog.Logger,
) *InventoryManager {
	return &InventoryManager{
		itemRepo:    itemRepo,
		listingRepo: listingRepo,
		accountRepo: accountRepo,
		transactor:  transactor,
		log:         log,
	}
}

// ListOwned returns the account's items that are not listed, newest first.
func (m *InventoryManager) ListOwned(ctx context.Context, accountID uuid.UUID) ([]domain.Item, error) {
	items, err := m.itemRepo.ListUnlistedByOwner(ctx, accountID)
	if err != nil {
		return nil, classify("list owned items", err)
	}
	return items, nil
}

// ListByOwner is the public inventory of any account.
func (m *InventoryManager) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]domain.Item, error) {
	account, err := m.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, classify("get account", err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return m.ListOwned(ctx, accountID)
}

// LockItem fetches the item with a row lock held until tx ends. Missing items return nil.
func (m *InventoryManager) LockItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*domain.Item, error) {
	item, err := m.itemRepo.GetByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return nil, classify("lock item", err)
	}
	return item, nil
}

// TransferOwnership moves the item to a new owner through tx. Ownership is not re-validated;
// the caller holds the item lock. No matching row means stored state is inconsistent.
func (m *InventoryManager) TransferOwnership(ctx context.Context, tx pgx.Tx, itemID, from, to uuid.UUID) error {
	n, err := m.itemRepo.UpdateOwner(ctx, tx, itemID, from, to)
	if err != nil {
		return classify("transfer ownership", err)
	}
	if n == 0 {
		return apperror.FatalConsistency(fmt.Sprintf("item %s not owned by %s at transfer", itemID, from))
	}
	return nil
}

// CreateItem adds an item to the catalog. The owner defaults to the calling admin.
func (m *InventoryManager) CreateItem(ctx context.Context, caller domain.Caller, req ports.CreateItemRequest) (*domain.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Wear:      req.Wear,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		OwnerID:   caller.AccountID,
		CreatedAt: time.Now().UTC(),
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if req.OwnerID != nil {
		owner, err := m.accountRepo.GetByID(ctx, *req.OwnerID)
		if err != nil {
			return nil, classify("get owner", err)
		}
		if owner == nil {
			return nil, apperror.ErrAccountNotFound()
		}
		item.OwnerID = owner.ID
	}

	if err := m.itemRepo.Create(ctx, item); err != nil {
		return nil, classify("create item", err)
	}

	m.log.Info().
		Str("item_id", item.ID.String()).
		Str("owner_id", item.OwnerID.String()).
		Str("admin_id", caller.AccountID.String()).
		Msg("catalog item created")

	return item, nil
}

// EditItem applies a partial update of catalog fields. Ownership cannot be edited.
func (m *InventoryManager) EditItem(ctx context.Context, caller domain.Caller, itemID uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperror.ErrEmptyPatch()
	}

	var updated *domain.Item
	err := m.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		item, err := m.LockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound()
		}

		patch.Apply(item)
		item.Name = strings.TrimSpace(item.Name)
		item.Category = strings.TrimSpace(item.Category)
		item.ImageURL = strings.TrimSpace(item.ImageURL)
		if err := validateItem(item); err != nil {
			return err
		}

		if err := m.itemRepo.Update(ctx, tx, item); err != nil {
			return classify("update item", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, classify("edit item", err)
	}

	m.log.Info().
		Str("item_id", itemID.String()).
		Str("admin_id", caller.AccountID.String()).
		Msg("catalog item edited")

	return updated, nil
}

// DeleteItem removes an item and its active listing in one transaction.
func (m *InventoryManager) DeleteItem(ctx context.Context, caller domain.Caller, itemID uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	var listingsRemoved int64
	err := m.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Listing before item, the same order Purchase and CancelListing lock in.
		listing, err := m.listingRepo.GetByItemForUpdate(ctx, tx, itemID)
		if err != nil {
			return classify("lock item listing", err)
		}

		item, err := m.LockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound()
		}

		if listing != nil {
			listingsRemoved, err = m.listingRepo.DeleteByItem(ctx, tx, itemID)
			if err != nil {
				return classify("delete item listing", err)
			}
		}
		if err := m.itemRepo.Delete(ctx, tx, itemID); err != nil {
			return classify("delete item", err)
		}
		return nil
	})
	if err != nil {
		return classify("delete item", err)
	}

	m.log.Info().
		Str("item_id", itemID.String()).
		Str("admin_id", caller.AccountID.String()).
		Int64("listings_removed", listingsRemoved).
		Msg("catalog item deleted")

	return nil
}

// ListCatalog returns every item ordered by category.
func (m *InventoryManager) ListCatalog(ctx context.Context, caller domain.Caller) ([]domain.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	items, err := m.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, classify("list catalog", err)
	}
	return items, nil
}

func requireAdmin(caller domain.Caller) error {
	if !caller.IsAdmin() {
		return apperror.ErrAdminOnly()
	}
	return nil
}

func validateItem(item *domain.Item) error {
	switch {
	case item.Name == "":
		return apperror.Validation("name is required")
	case item.Category == "":
		return apperror.Validation("category is required")
	case !item.Wear.Valid():
		return apperror.Validation(fmt.Sprintf("wear must be one of %v", domain.Wears))
	}
	return nil
}
