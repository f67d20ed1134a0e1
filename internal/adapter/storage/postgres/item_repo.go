package postgres

import (
	"context"
	"errors"
	"fmt"

	"skin-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, name, category, wear, image_url, owner_id, created_at`

// ItemRepo implements ports.ItemRepository.
type ItemRepo struct {
	pool Pool
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(pool Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func scanItem(row rowScanner) (*domain.Item, error) {
	i := &domain.Item{}
	var wear string
	if err := row.Scan(&i.ID, &i.Name, &i.Category, &wear, &i.ImageURL, &i.OwnerID, &i.CreatedAt); err != nil {
		return nil, err
	}
	i.Wear = domain.Wear(wear)
	return i, nil
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// Create inserts a new catalog item. An unknown owner surfaces as an integrity error.
func (r *ItemRepo) Create(ctx context.Context, i *domain.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		i.ID, i.Name, i.Category, string(i.Wear), i.ImageURL, i.OwnerID, i.CreatedAt,
	)
	if err != nil {
		if appErr := translate(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID fetches an item by its UUID (without locking).
func (r *ItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	i, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return i, nil
}

// GetByIDForUpdate fetches an item with a row lock held until tx ends.
// This MUST be called within a transaction.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`

	i, err := scanItem(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return i, nil
}

// ListUnlistedByOwner returns the owner's items that are not on the market, newest first.
func (r *ItemRepo) ListUnlistedByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error) {
	query := `SELECT i.id, i.name, i.category, i.wear, i.image_url, i.owner_id, i.created_at
		FROM items i
		LEFT JOIN listings l ON l.item_id = i.id
		WHERE i.owner_id = $1 AND l.id IS NULL
		ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list unlisted items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan unlisted items: %w", err)
	}
	return items, nil
}

// ListAll returns the whole catalog grouped by category.
func (r *ItemRepo) ListAll(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return items, nil
}

// Update writes the catalog fields of an item. Ownership is not touched here.
func (r *ItemRepo) Update(ctx context.Context, tx pgx.Tx, i *domain.Item) error {
	query := `UPDATE items SET name = $1, category = $2, wear = $3, image_url = $4 WHERE id = $5`

	tag, err := tx.Exec(ctx, query, i.Name, i.Category, string(i.Wear), i.ImageURL, i.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %s", i.ID)
	}
	return nil
}

// UpdateOwner moves an item from one owner to another and reports rows affected.
func (r *ItemRepo) UpdateOwner(ctx context.Context, tx pgx.Tx, itemID, from, to uuid.UUID) (int64, error) {
	query := `UPDATE items SET owner_id = $1 WHERE id = $2 AND owner_id = $3`

	tag, err := tx.Exec(ctx, query, to, itemID, from)
	if err != nil {
		if appErr := translate(err); appErr != nil {
			return 0, appErr
		}
		return 0, fmt.Errorf("update item owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes an item. Its listing, if any, goes with it through ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}
