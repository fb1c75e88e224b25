package service

import "github.com/iliyamo/perfume-store/internal/model"

// CanAssignRole reports whether an actor may hand out the target role.
// USER is free to assign; ADMIN and SUPERADMIN only flow from a superadmin.
func CanAssignRole(actor, target model.Role) bool {
	if target == model.RoleUser {
		return true
	}
	return actor.IsSuperadmin()
}

// CanModifyAccount reports whether an actor may edit an account that
// currently holds the given role. Accounts holding SUPERADMIN are locked
// to superadmins; everything below opens to any admin.
func CanModifyAccount(actor, current model.Role) bool {
	if current.IsSuperadmin() {
		return actor.IsSuperadmin()
	}
	return true
}
