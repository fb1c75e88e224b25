// Package repository implements MySQL persistence for the storefront.
// Sentinel errors defined here let the service layer distinguish
// uniqueness violations from other database failures: ErrDuplicateNumber
// tells checkout that a freshly generated order number lost a race on the
// unique index and a new one must be drawn, while ErrEmailExists and
// ErrUsernameExists map account uniqueness violations onto specific fields.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateNumber is returned when an order insert hits the unique
// index on orders.order_number.
var ErrDuplicateNumber = errors.New("order number already exists")

// ErrEmailExists is returned when an account insert or update violates
// the unique index on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when an account insert or update
// violates the unique index on users.username.
var ErrUsernameExists = errors.New("username already exists")

// isDuplicate reports whether err is a MySQL duplicate-entry error
// (error code 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
