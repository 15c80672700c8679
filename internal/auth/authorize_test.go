package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CallumRowston/CA-T3A2-B-travelers-forum-server/internal/apperr"
)

type ownedStub struct {
	owner string
}

func (o ownedStub) OwnedBy() string {
	return o.owner
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		identity  Identity
		entity    ownedStub
		wantError bool
	}{
		{
			name:     "Caller owns the entity",
			identity: Identity{MemberID: "member-1"},
			entity:   ownedStub{owner: "member-1"},
		},
		{
			name:      "Caller does not own the entity",
			identity:  Identity{MemberID: "member-1"},
			entity:    ownedStub{owner: "member-2"},
			wantError: true,
		},
		{
			name:      "Empty identity never owns anything",
			identity:  Identity{},
			entity:    ownedStub{owner: "member-2"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.identity, tt.entity)
			if tt.wantError {
				assert.Error(t, err)
				assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
