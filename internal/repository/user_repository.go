package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/perfume-store/internal/model"
)

// UserRepo persists staff accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,password_salt,full_name,notes,is_active,role,created_by,created_at,updated_at"

// Create inserts the account and fills in its ID.
func (r *UserRepo) Create(ctx context.Context, a *model.Account) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email,username,password_hash,password_salt,full_name,notes,is_active,role,created_by) VALUES (?,?,?,?,?,?,?,?,?)",
		a.Email, a.Username, a.PasswordHash, a.PasswordSalt, a.FullName, a.Notes, a.IsActive, string(a.Role), a.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return duplicateField(err)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// AccountByEmail fetches an account by normalized email.
func (r *UserRepo) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// AccountByID fetches an account by id.
func (r *UserRepo) AccountByID(ctx context.Context, id uint64) (*model.Account, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns accounts ordered by id with offset pagination.
func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Count returns the total number of accounts.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// Update persists the mutable account fields.
func (r *UserRepo) Update(ctx context.Context, a *model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?,username=?,full_name=?,notes=?,is_active=?,role=? WHERE id=?",
		a.Email, a.Username, a.FullName, a.Notes, a.IsActive, string(a.Role), a.ID)
	if err != nil && isDuplicate(err) {
		return duplicateField(err)
	}
	return err
}

// UpdatePassword stores a new hash and salt for the account.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash, salt string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?,password_salt=? WHERE id=?", hash, salt, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.Account, error) {
	return scanAccount(row)
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		a    model.Account
		role string
	)
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.PasswordSalt,
		&a.FullName, &a.Notes, &a.IsActive, &role, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Role = model.Role(role)
	return &a, nil
}

// duplicateField narrows a 1062 error to the violated unique index.
func duplicateField(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}
