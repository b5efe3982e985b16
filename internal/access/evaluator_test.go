package access_test

import (
	"testing"

	"socketBoard/internal/access"
	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"

	"github.com/stretchr/testify/assert"
)

func board() *models.Whiteboard {
	wb := &models.Whiteboard{
		OwnerID: 1,
		Participants: []models.Participant{
			{UserID: 1, Role: enums.ROLE_OWNER},
			{UserID: 2, Role: enums.ROLE_EDIT},
			{UserID: 3, Role: enums.ROLE_READ},
		},
	}
	wb.ID = 10
	return wb
}

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name   string
		wb     *models.Whiteboard
		userID uint
		action access.Action
		want   error
	}{
		{"owner views", board(), 1, access.ActionView, nil},
		{"editor views", board(), 2, access.ActionView, nil},
		{"reader views", board(), 3, access.ActionView, nil},
		{"owner mutates", board(), 1, access.ActionMutateContent, nil},
		{"editor mutates", board(), 2, access.ActionMutateContent, nil},
		{"reader cannot mutate", board(), 3, access.ActionMutateContent, errs.ErrInsufficientRole},
		{"owner invites", board(), 1, access.ActionInvite, nil},
		{"editor cannot invite", board(), 2, access.ActionInvite, errs.ErrInsufficientRole},
		{"reader cannot invite", board(), 3, access.ActionInvite, errs.ErrInsufficientRole},
		{"owner changes roles", board(), 1, access.ActionChangeRole, nil},
		{"editor cannot change roles", board(), 2, access.ActionChangeRole, errs.ErrInsufficientRole},
		{"owner deletes", board(), 1, access.ActionDeleteWhiteboard, nil},
		{"editor cannot delete", board(), 2, access.ActionDeleteWhiteboard, errs.ErrInsufficientRole},
		{"owner removes participants", board(), 1, access.ActionRemoveParticipant, nil},
		{"reader cannot remove participants", board(), 3, access.ActionRemoveParticipant, errs.ErrInsufficientRole},
		{"stranger denied", board(), 99, access.ActionView, errs.ErrNotAParticipant},
		{"stranger cannot mutate", board(), 99, access.ActionMutateContent, errs.ErrNotAParticipant},
		{"missing whiteboard", nil, 1, access.ActionView, errs.ErrWhiteboardNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := access.CanPerform(tt.wb, tt.userID, tt.action)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRoleUnsetRole(t *testing.T) {
	assert.Equal(t, errs.ErrNotAParticipant, access.CheckRole(enums.ROLE_NONE, access.ActionView))
}
