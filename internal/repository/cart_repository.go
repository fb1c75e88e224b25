package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/perfume-store/internal/model"
)

// CartRepo persists session carts in the 'cart_items' table. One row per
// (session_id, product_id) pair; adding the same product again bumps the
// quantity at the service layer.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

const cartColumns = "id,session_id,product_id,quantity,comment,created_at,updated_at"

// ItemsBySession returns every cart row for the session ordered by id.
func (r *CartRepo) ItemsBySession(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+cartColumns+" FROM cart_items WHERE session_id=? ORDER BY id", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// ItemByID fetches a single cart row by id.
func (r *CartRepo) ItemByID(ctx context.Context, id uint64) (*model.CartItem, error) {
	return scanCartItem(r.DB.QueryRowContext(ctx,
		"SELECT "+cartColumns+" FROM cart_items WHERE id=? LIMIT 1", id))
}

// ItemBySessionProduct fetches the row for a product already in the
// session's cart, or sql.ErrNoRows when absent.
func (r *CartRepo) ItemBySessionProduct(ctx context.Context, sessionID string, productID uint64) (*model.CartItem, error) {
	return scanCartItem(r.DB.QueryRowContext(ctx,
		"SELECT "+cartColumns+" FROM cart_items WHERE session_id=? AND product_id=? LIMIT 1",
		sessionID, productID))
}

// Insert adds a new cart row and fills in its ID.
func (r *CartRepo) Insert(ctx context.Context, item *model.CartItem) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cart_items (session_id,product_id,quantity,comment) VALUES (?,?,?,?)",
		item.SessionID, item.ProductID, item.Quantity, item.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

// Update sets quantity and comment on a cart row.
func (r *CartRepo) Update(ctx context.Context, id uint64, quantity uint32, comment string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=?,comment=? WHERE id=?", quantity, comment, id)
	return err
}

// Delete removes a single cart row.
func (r *CartRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE id=?", id)
	return err
}

// DeleteBySession empties a session's cart.
func (r *CartRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE session_id=?", sessionID)
	return err
}

func scanCartItem(row rowScanner) (*model.CartItem, error) {
	var it model.CartItem
	err := row.Scan(&it.ID, &it.SessionID, &it.ProductID, &it.Quantity,
		&it.Comment, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
