package auth

import (
	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
)

// Owned is any entity with an owning member.
type Owned interface {
	OwnedBy() string
}

// Authorize confirms the caller owns the entity. It compares id values only,
// so entities resolved from earlier reads work the same as live records.
// Callers run their existence guard first; this never reveals whether the
// entity exists.
func Authorize(identity Identity, entity Owned) error {
	if entity.OwnedBy() != identity.MemberID {
		return apperr.Forbidden("you are not the owner of this resource")
	}
	return nil
}
