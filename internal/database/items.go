package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benvon/lemonaid/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("item not found")

// ItemStore is the persistence contract used by the item handlers.
type ItemStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, limit, offset int) ([]*models.Item, int, error)
	Create(ctx context.Context, item *models.Item) error
}

// Ensure concrete types implement the interface
var (
	_ ItemStore = (*ItemRepository)(nil)
	_ ItemStore = (*MemoryItemStore)(nil)
)

const createItemsTable = `
	CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`

// ItemRepository stores items in Postgres.
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// EnsureSchema creates the items table when it does not exist.
func (r *ItemRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createItemsTable); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

// Get retrieves an item by id.
func (r *ItemRepository) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at
		FROM items WHERE id = $1
	`, id)
	item := &models.Item{}
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns one page of items, newest first, and the total count.
func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]*models.Item, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at
		FROM items ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []*models.Item{}
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}
	return items, total, nil
}

// Create inserts an item.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, item.ID, item.Name, item.Description, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}
