package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/perfume-store/internal/model"
)

// ProductRepo persists catalog entries in the 'products' table.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,price_rub,brand,volume,description,created_at,updated_at"

// Create inserts the product and fills in its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name,price_rub,brand,volume,description) VALUES (?,?,?,?,?)",
		p.Name, p.PriceRUB, p.Brand, p.Volume, p.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ProductByID fetches a product by id.
func (r *ProductRepo) ProductByID(ctx context.Context, id uint64) (*model.Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id))
}

// List returns products ordered by id with offset pagination.
func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]model.Product, error) {
	return r.query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id LIMIT ? OFFSET ?", limit, offset)
}

// Count returns the total number of products.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}

// SearchParams narrows a catalog search. Zero values mean "no filter".
type SearchParams struct {
	Query    string  // substring match on name, brand or description
	Brand    string  // exact brand match
	MinPrice float64 // inclusive lower price bound
	MaxPrice float64 // inclusive upper price bound, 0 disables
	Sort     string  // "name", "price" or "date"; anything else sorts by id
	Desc     bool
	Offset   int
	Limit    int
}

// orderBy maps the sort key to a column. The key is whitelisted here, never
// interpolated from user input directly.
func (p SearchParams) orderBy() string {
	col := "id"
	switch p.Sort {
	case "name":
		col = "name"
	case "price":
		col = "price_rub"
	case "date":
		col = "created_at"
	}
	if p.Desc {
		return col + " DESC"
	}
	return col
}

// Search returns products matching the params in the requested order.
func (r *ProductRepo) Search(ctx context.Context, p SearchParams) ([]model.Product, error) {
	where, args := searchWhere(p)
	args = append(args, p.Limit, p.Offset)
	return r.query(ctx,
		"SELECT "+productColumns+" FROM products"+where+" ORDER BY "+p.orderBy()+" LIMIT ? OFFSET ?", args...)
}

// SearchCount returns how many products match the params.
func (r *ProductRepo) SearchCount(ctx context.Context, p SearchParams) (int, error) {
	where, args := searchWhere(p)
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&n)
	return n, err
}

// Brands returns the distinct non-empty brand names in the catalog.
func (r *ProductRepo) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT brand FROM products WHERE brand<>'' ORDER BY brand")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PriceRange returns the lowest and highest catalog price. Both are zero
// when the catalog is empty.
func (r *ProductRepo) PriceRange(ctx context.Context) (float64, float64, error) {
	var minP, maxP sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		"SELECT MIN(price_rub),MAX(price_rub) FROM products").Scan(&minP, &maxP)
	if err != nil {
		return 0, 0, err
	}
	return minP.Float64, maxP.Float64, nil
}

// Update persists the mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?,price_rub=?,brand=?,volume=?,description=? WHERE id=?",
		p.Name, p.PriceRUB, p.Brand, p.Volume, p.Description, p.ID)
	return err
}

// Delete removes a product. Cart rows referencing it stay behind and are
// skipped at checkout.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, q string, args ...any) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.PriceRUB, &p.Brand, &p.Volume,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func searchWhere(p SearchParams) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if p.Query != "" {
		like := "%" + p.Query + "%"
		where += " AND (name LIKE ? OR brand LIKE ? OR description LIKE ?)"
		args = append(args, like, like, like)
	}
	if p.Brand != "" {
		where += " AND brand=?"
		args = append(args, p.Brand)
	}
	if p.MinPrice > 0 {
		where += " AND price_rub>=?"
		args = append(args, p.MinPrice)
	}
	if p.MaxPrice > 0 {
		where += " AND price_rub<=?"
		args = append(args, p.MaxPrice)
	}
	return where, args
}
