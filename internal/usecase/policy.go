package usecase

import (
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/utils"
)

// CanMutate reports whether actor may change venue or anything hanging off it.
// Owners are matched by normalized email; superadmins may change everything.
func CanMutate(actor utils.SessionUser, venue *entity.Venue) bool {
	if venue == nil {
		return false
	}
	if isSuperAdmin(actor) {
		return true
	}
	return actor.Role == string(entity.RoleAdmin) &&
		venue.Owner.Email.Equal(entity.OwnerEmail(actor.Email))
}

func isSuperAdmin(actor utils.SessionUser) bool {
	return actor.Role == string(entity.RoleSuperAdmin)
}

// canView is CanMutate for an optional session.
func canView(actor *utils.SessionUser, venue *entity.Venue) bool {
	return actor != nil && CanMutate(*actor, venue)
}
