package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/perfume-store/internal/model"
)

// OrderRepo persists placed orders in the 'orders' and 'order_items'
// tables. Checkout writes through CreateWithItems, which also clears the
// session's cart inside the same transaction.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,order_number,session_id,account_id,status,total_amount,customer_name,contact_phone,contact_email,notes,created_at,updated_at"

// NumberExists reports whether an order already carries the number.
func (r *OrderRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM orders WHERE order_number=? LIMIT 1", number).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateWithItems inserts the order with its item rows and clears the
// session's cart, all in one transaction. A duplicate order_number surfaces
// as ErrDuplicateNumber so the caller can draw a new one.
func (r *OrderRepo) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (order_number,session_id,account_id,status,total_amount,customer_name,contact_phone,contact_email,notes) VALUES (?,?,?,?,?,?,?,?,?)",
		o.OrderNumber, o.SessionID, o.AccountID, string(o.Status), o.TotalAmount,
		o.CustomerName, o.ContactPhone, o.ContactEmail, o.Notes)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateNumber
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	if len(items) > 0 {
		// Single multi-row insert instead of one round trip per item.
		var (
			sb   strings.Builder
			args []any
		)
		sb.WriteString("INSERT INTO order_items (order_id,product_id,quantity,price,comment) VALUES ")
		for i, it := range items {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?,?,?,?,?)")
			args = append(args, o.ID, it.ProductID, it.Quantity, it.Price, it.Comment)
		}
		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE session_id=?", o.SessionID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// OrderByID fetches an order by id.
func (r *OrderRepo) OrderByID(ctx context.Context, id uint64) (*model.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id))
}

// OrderByNumber fetches an order by its 6-digit number.
func (r *OrderRepo) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_number=? LIMIT 1", number))
}

// ItemsByOrder returns the snapshot lines of an order.
func (r *OrderRepo) ItemsByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_id,product_id,quantity,price,comment FROM order_items WHERE order_id=? ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.Comment); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// OrdersBySession returns the session's orders, newest first.
func (r *OrderRepo) OrdersBySession(ctx context.Context, sessionID string) ([]model.Order, error) {
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE session_id=? ORDER BY created_at DESC", sessionID)
}

// OrdersByAccount returns an account's orders, newest first.
func (r *OrderRepo) OrdersByAccount(ctx context.Context, accountID uint64) ([]model.Order, error) {
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE account_id=? ORDER BY created_at DESC", accountID)
}

// OrdersAll returns every order, newest first, optionally filtered by
// status, with offset pagination.
func (r *OrderRepo) OrdersAll(ctx context.Context, status *model.OrderStatus, offset, limit int) ([]model.Order, error) {
	if status != nil {
		return r.query(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE status=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
			string(*status), limit, offset)
	}
	return r.query(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?", limit, offset)
}

// CountAll returns the number of orders, optionally filtered by status.
func (r *OrderRepo) CountAll(ctx context.Context, status *model.OrderStatus) (int, error) {
	var n int
	if status != nil {
		err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM orders WHERE status=?", string(*status)).Scan(&n)
		return n, err
	}
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n)
	return n, err
}

// ItemCounts returns order_id -> number of item rows for the given orders.
func (r *OrderRepo) ItemCounts(ctx context.Context, orderIDs []uint64) (map[uint64]int, error) {
	counts := make(map[uint64]int, len(orderIDs))
	if len(orderIDs) == 0 {
		return counts, nil
	}
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT order_id,COUNT(*) FROM order_items WHERE order_id IN (")
	for i, id := range orderIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		args = append(args, id)
	}
	sb.WriteString(") GROUP BY order_id")
	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id uint64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// UpdateStatus moves an order to the given status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", string(status), id)
	return err
}

// Delete removes an order with its items in one transaction.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SessionID, &o.AccountID, &status,
		&o.TotalAmount, &o.CustomerName, &o.ContactPhone, &o.ContactEmail,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}
