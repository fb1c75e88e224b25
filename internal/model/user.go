package model

import "time"

// Role is the privilege level of an account. Roles form a total
// order: USER < ADMIN < SUPERADMIN.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperadmin
}

// IsAdmin reports whether the role grants administrative rights.
// Superadmins are admins too.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperadmin }

// IsSuperadmin reports whether the role is the highest level.
func (r Role) IsSuperadmin() bool { return r == RoleSuperadmin }

func (r Role) String() string { return string(r) }

// Account represents an administrative or registered user record as
// stored in the `accounts` table. Passwords are stored as a PBKDF2
// hash alongside the random salt used to derive it; the plain
// password never touches the database.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  Username     – unique login name.
//  PasswordHash – hex PBKDF2-SHA256 digest of the password.
//  PasswordSalt – hex random salt used for the digest.
//  FullName     – display name.
//  Notes        – optional administrative notes.
//  IsActive     – whether the account may log in.
//  Role         – privilege level (USER, ADMIN, SUPERADMIN).
//  CreatedBy    – id of the admin who created the account, if any.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	PasswordSalt string    // users.password_salt
	FullName     string    // users.full_name
	Notes        string    // users.notes
	IsActive     bool      // users.is_active
	Role         Role      // users.role
	CreatedBy    *uint64   // users.created_by (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Identity is the effective caller identity computed per request: a
// session id that always exists, and the authenticated account when
// a valid bearer token was presented. Account is nil for anonymous
// shoppers.
type Identity struct {
	SessionID string
	Account   *Account
}

// IsAdmin reports whether the identity belongs to an administrator.
// Anonymous identities are never administrators.
func (i Identity) IsAdmin() bool {
	return i.Account != nil && i.Account.Role.IsAdmin()
}

// Owns reports whether the identity owns an order: a matching
// account id when authenticated, or a matching session id otherwise.
func (i Identity) Owns(o *Order) bool {
	if i.Account != nil {
		return o.AccountID != nil && *o.AccountID == i.Account.ID
	}
	return o.SessionID == i.SessionID
}
