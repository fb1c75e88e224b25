package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/perfume-store/internal/model"
)

// RateRepo persists currency conversion rates in the 'currency_rates'
// table. At most one active row exists per currency code; Store retires
// the previous active rate and inserts the new one in a transaction, so
// history is kept.
type RateRepo struct{ DB *sql.DB }

func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{DB: db} }

const rateColumns = "id,currency_code,rate_to_rub,is_active,created_by,created_at"

// ActiveRate fetches the active rate for a code, or sql.ErrNoRows.
func (r *RateRepo) ActiveRate(ctx context.Context, code string) (*model.Rate, error) {
	return scanRate(r.DB.QueryRowContext(ctx,
		"SELECT "+rateColumns+" FROM currency_rates WHERE currency_code=? AND is_active=1 LIMIT 1", code))
}

// ActiveRates returns every active rate ordered by currency code.
func (r *RateRepo) ActiveRates(ctx context.Context) ([]model.Rate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+rateColumns+" FROM currency_rates WHERE is_active=1 ORDER BY currency_code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Rate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rate)
	}
	return out, rows.Err()
}

// Store deactivates any current rate for the code and inserts the new one
// as active, in a single transaction.
func (r *RateRepo) Store(ctx context.Context, code string, rateToRUB float64, createdBy uint64) (*model.Rate, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"UPDATE currency_rates SET is_active=0 WHERE currency_code=? AND is_active=1", code); err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO currency_rates (currency_code,rate_to_rub,is_active,created_by) VALUES (?,?,1,?)",
		code, rateToRUB, createdBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &model.Rate{
		ID:           uint64(id),
		CurrencyCode: code,
		RateToRUB:    rateToRUB,
		IsActive:     true,
		CreatedBy:    createdBy,
	}, nil
}

func scanRate(row rowScanner) (*model.Rate, error) {
	var rate model.Rate
	err := row.Scan(&rate.ID, &rate.CurrencyCode, &rate.RateToRUB,
		&rate.IsActive, &rate.CreatedBy, &rate.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
