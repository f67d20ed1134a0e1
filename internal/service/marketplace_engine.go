package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MarketplaceEngine runs the listing lifecycle: none -> active -> sold | cancelled.
// Every mutation happens in one transaction; events go out only after commit.
type MarketplaceEngine struct {
	accounts    *AccountManager
	inventory   *InventoryManager
	journal     *Journal
	listingRepo ports.ListingRepository
	transactor  ports.Transactor
	locker      ports.ItemLocker
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewMarketplaceEngine creates a new MarketplaceEngine. locker and publisher may be nil.
func NewMarketplaceEngine(
	accounts *AccountManager,
	inventory *InventoryManager,
	journal *Journal,
	listingRepo ports.ListingRepository,
	transactor ports.Transactor,
	locker ports.ItemLocker,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *MarketplaceEngine {
	return &MarketplaceEngine{
		accounts:    accounts,
		inventory:   inventory,
		journal:     journal,
		listingRepo: listingRepo,
		transactor:  transactor,
		locker:      locker,
		publisher:   publisher,
		log:         log,
	}
}

// CreateListing puts an owned item on the market at a fixed price.
func (e *MarketplaceEngine) CreateListing(ctx context.Context, caller domain.Caller, itemID uuid.UUID, price decimal.Decimal) (uuid.UUID, error) {
	if !validMoney(price) {
		return uuid.Nil, apperror.ErrInvalidPrice()
	}

	if e.locker != nil {
		release, err := e.locker.Lock(ctx, itemID)
		switch {
		case errors.Is(err, ports.ErrItemLockHeld):
			return uuid.Nil, apperror.ErrItemBusy(err)
		case err != nil:
			// The row lock and UNIQUE(item_id) still guard the insert.
			e.log.Warn().Err(err).Str("item_id", itemID.String()).Msg("item lock unavailable, continuing without it")
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					e.log.Warn().Err(err).Str("item_id", itemID.String()).Msg("failed to release item lock")
				}
			}()
		}
	}

	listing := &domain.Listing{
		ID:        uuid.New(),
		ItemID:    itemID,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}

	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		item, err := e.inventory.LockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.ErrItemNotFound()
		}
		if !item.OwnedBy(caller.AccountID) {
			return apperror.ErrNotOwner()
		}

		listed, err := e.listingRepo.ExistsForItem(ctx, tx, itemID)
		if err != nil {
			return classify("check active listing", err)
		}
		if listed {
			return apperror.ErrAlreadyListed()
		}

		if err := e.listingRepo.Create(ctx, tx, listing); err != nil {
			return classify("create listing", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, classify("create listing", err)
	}

	publishCommitted(ctx, e.publisher, e.log, domain.MarketEvent{
		Type:       domain.EventListingCreated,
		AccountID:  caller.AccountID,
		ListingID:  &listing.ID,
		ItemID:     &itemID,
		SellerID:   &caller.AccountID,
		Amount:     &price,
		OccurredAt: listing.CreatedAt,
	})

	e.log.Info().
		Str("listing_id", listing.ID.String()).
		Str("item_id", itemID.String()).
		Str("seller_id", caller.AccountID.String()).
		Str("price", price.String()).
		Msg("listing created")

	return listing.ID, nil
}

// CancelListing takes a listing off the market. Only the item owner or an admin may cancel.
func (e *MarketplaceEngine) CancelListing(ctx context.Context, caller domain.Caller, listingID uuid.UUID) error {
	var listing *domain.Listing
	var sellerID uuid.UUID

	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		listing, err = e.lockListing(ctx, tx, listingID)
		if err != nil {
			return err
		}

		item, err := e.lockListedItem(ctx, tx, listing)
		if err != nil {
			return err
		}
		if !item.OwnedBy(caller.AccountID) && !caller.IsAdmin() {
			return apperror.ErrNotOwner()
		}
		sellerID = item.OwnerID

		return e.removeListing(ctx, tx, listingID)
	})
	if err != nil {
		return classify("cancel listing", err)
	}

	publishCommitted(ctx, e.publisher, e.log, domain.MarketEvent{
		Type:       domain.EventListingCancelled,
		AccountID:  caller.AccountID,
		ListingID:  &listing.ID,
		ItemID:     &listing.ItemID,
		SellerID:   &sellerID,
		OccurredAt: time.Now().UTC(),
	})

	e.log.Info().
		Str("listing_id", listingID.String()).
		Str("account_id", caller.AccountID.String()).
		Msg("listing cancelled")

	return nil
}

// Purchase buys a listed item: funds move buyer -> seller, the item moves seller -> buyer,
// the listing is removed and both sides are journaled, all in one transaction.
func (e *MarketplaceEngine) Purchase(ctx context.Context, caller domain.Caller, listingID uuid.UUID) (*domain.Receipt, error) {
	var receipt *domain.Receipt

	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// The listing row lock serializes concurrent buyers; the loser finds it gone.
		listing, err := e.lockListing(ctx, tx, listingID)
		if err != nil {
			return err
		}

		item, err := e.lockListedItem(ctx, tx, listing)
		if err != nil {
			return err
		}
		if item.OwnedBy(caller.AccountID) {
			return apperror.ErrSelfPurchase()
		}

		buyer, seller, err := e.lockParties(ctx, tx, caller.AccountID, item.OwnerID)
		if err != nil {
			return err
		}

		if !buyer.CanAfford(listing.Price) {
			return apperror.ErrInsufficientFunds()
		}

		if err := e.accounts.Debit(ctx, tx, buyer, listing.Price); err != nil {
			return err
		}
		if err := e.accounts.Credit(ctx, tx, seller, listing.Price); err != nil {
			return err
		}
		if err := e.inventory.TransferOwnership(ctx, tx, item.ID, seller.ID, buyer.ID); err != nil {
			return err
		}
		if err := e.removeListing(ctx, tx, listing.ID); err != nil {
			return err
		}
		if _, err := e.journal.Append(ctx, tx, buyer.ID, listing.Price.Neg(), domain.EntryKindPurchase); err != nil {
			return err
		}
		if _, err := e.journal.Append(ctx, tx, seller.ID, listing.Price, domain.EntryKindSale); err != nil {
			return err
		}

		receipt = &domain.Receipt{
			ListingID:    listing.ID,
			ItemID:       item.ID,
			BuyerID:      buyer.ID,
			SellerID:     seller.ID,
			Price:        listing.Price,
			BuyerBalance: buyer.Balance,
			PurchasedAt:  time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, classify("purchase", err)
	}

	publishCommitted(ctx, e.publisher, e.log, domain.MarketEvent{
		Type:       domain.EventListingSold,
		AccountID:  receipt.BuyerID,
		ListingID:  &receipt.ListingID,
		ItemID:     &receipt.ItemID,
		SellerID:   &receipt.SellerID,
		Amount:     &receipt.Price,
		OccurredAt: receipt.PurchasedAt,
	})

	e.log.Info().
		Str("listing_id", receipt.ListingID.String()).
		Str("item_id", receipt.ItemID.String()).
		Str("buyer_id", receipt.BuyerID.String()).
		Str("seller_id", receipt.SellerID.String()).
		Str("price", receipt.Price.String()).
		Msg("purchase completed")

	return receipt, nil
}

// Browse returns every active listing the caller could buy.
func (e *MarketplaceEngine) Browse(ctx context.Context, caller domain.Caller) ([]domain.ListingView, error) {
	views, err := e.listingRepo.ListExcludingOwner(ctx, caller.AccountID)
	if err != nil {
		return nil, classify("browse listings", err)
	}
	return views, nil
}

// MyListings returns the caller's active listings.
func (e *MarketplaceEngine) MyListings(ctx context.Context, caller domain.Caller) ([]domain.ListingView, error) {
	views, err := e.listingRepo.ListByOwner(ctx, caller.AccountID)
	if err != nil {
		return nil, classify("list own listings", err)
	}
	return views, nil
}

func (e *MarketplaceEngine) lockListing(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) (*domain.Listing, error) {
	listing, err := e.listingRepo.GetByIDForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, classify("lock listing", err)
	}
	if listing == nil {
		return nil, apperror.ErrListingNotFound()
	}
	return listing, nil
}

func (e *MarketplaceEngine) lockListedItem(ctx context.Context, tx pgx.Tx, listing *domain.Listing) (*domain.Item, error) {
	item, err := e.inventory.LockItem(ctx, tx, listing.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.FatalConsistency(fmt.Sprintf("listing %s references missing item %s", listing.ID, listing.ItemID))
	}
	return item, nil
}

func (e *MarketplaceEngine) removeListing(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) error {
	n, err := e.listingRepo.Delete(ctx, tx, listingID)
	if err != nil {
		return classify("delete listing", err)
	}
	if n == 0 {
		return apperror.ErrListingNotFound()
	}
	return nil
}

// lockParties locks both accounts in ascending id order so concurrent purchases
// between the same pair cannot deadlock.
func (e *MarketplaceEngine) lockParties(ctx context.Context, tx pgx.Tx, buyerID, sellerID uuid.UUID) (buyer, seller *domain.Account, err error) {
	order := []uuid.UUID{buyerID, sellerID}
	if bytes.Compare(sellerID[:], buyerID[:]) < 0 {
		order[0], order[1] = sellerID, buyerID
	}

	locked := make(map[uuid.UUID]*domain.Account, 2)
	for _, id := range order {
		account, err := e.accounts.Lock(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = account
	}

	buyer, seller = locked[buyerID], locked[sellerID]
	if buyer == nil {
		return nil, nil, apperror.ErrAccountNotFound()
	}
	if seller == nil {
		return nil, nil, apperror.FatalConsistency(fmt.Sprintf("item owner %s has no account", sellerID))
	}
	return buyer, seller, nil
}
