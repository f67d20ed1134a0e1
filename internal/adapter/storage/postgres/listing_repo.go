package postgres

import (
	"context"
	"errors"
	"fmt"

	"skin-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ports.ListingRepository.
type ListingRepo struct {
	pool Pool
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(pool Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

const listingViewQuery = `SELECT l.id, l.item_id, l.price, l.created_at,
		i.id, i.name, i.category, i.wear, i.image_url, i.owner_id, i.created_at
		FROM listings l
		JOIN items i ON i.id = l.item_id`

// Create inserts a listing. A second listing for the same item surfaces as ALREADY_LISTED.
func (r *ListingRepo) Create(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	query := `INSERT INTO listings (id, item_id, price, created_at) VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, l.ID, l.ItemID, l.Price, l.CreatedAt)
	if err != nil {
		if appErr := translate(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByIDForUpdate fetches a listing with a row lock held until tx ends.
// Concurrent purchases of one listing serialize here.
func (r *ListingRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Listing, error) {
	query := `SELECT id, item_id, price, created_at FROM listings WHERE id = $1 FOR UPDATE`

	l := &domain.Listing{}
	err := tx.QueryRow(ctx, query, id).Scan(&l.ID, &l.ItemID, &l.Price, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

// GetByItemForUpdate locks the active listing of itemID, if any.
// Callers that also lock the item take this lock first, matching Purchase and CancelListing.
func (r *ListingRepo) GetByItemForUpdate(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*domain.Listing, error) {
	query := `SELECT id, item_id, price, created_at FROM listings WHERE item_id = $1 FOR UPDATE`

	l := &domain.Listing{}
	err := tx.QueryRow(ctx, query, itemID).Scan(&l.ID, &l.ItemID, &l.Price, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing by item for update: %w", err)
	}
	return l, nil
}

// ExistsForItem reports whether the item already has an active listing.
func (r *ListingRepo) ExistsForItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE item_id = $1)`, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check listing exists: %w", err)
	}
	return exists, nil
}

func (r *ListingRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete listing: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ListingRepo) DeleteByItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM listings WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, fmt.Errorf("delete listing by item: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListExcludingOwner returns the market as seen by ownerID: everyone else's listings.
func (r *ListingRepo) ListExcludingOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingView, error) {
	return r.listViews(ctx, listingViewQuery+` WHERE i.owner_id <> $1 ORDER BY l.created_at DESC`, ownerID)
}

// ListByOwner returns the active listings of ownerID.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingView, error) {
	return r.listViews(ctx, listingViewQuery+` WHERE i.owner_id = $1 ORDER BY l.created_at DESC`, ownerID)
}

func (r *ListingRepo) listViews(ctx context.Context, query string, ownerID uuid.UUID) ([]domain.ListingView, error) {
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	views := make([]domain.ListingView, 0)
	for rows.Next() {
		var v domain.ListingView
		var wear string
		if err := rows.Scan(
			&v.ID, &v.ItemID, &v.Price, &v.CreatedAt,
			&v.Item.ID, &v.Item.Name, &v.Item.Category, &wear, &v.Item.ImageURL, &v.Item.OwnerID, &v.Item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		v.Item.Wear = domain.Wear(wear)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return views, nil
}
