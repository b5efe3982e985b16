package access

import (
	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
)

// Action is an operation a user can request on a whiteboard.
type Action int

const (
	ActionView Action = iota
	ActionMutateContent
	ActionInvite
	ActionChangeRole
	ActionDeleteWhiteboard
	ActionRemoveParticipant
)

// CanPerform decides whether actingUser may perform action on wb. It reads
// only the participant rows it is given, so callers decide how fresh that
// data is. A nil error means allow; otherwise the error is one of
// errs.ErrWhiteboardNotFound, errs.ErrNotAParticipant or
// errs.ErrInsufficientRole.
func CanPerform(wb *models.Whiteboard, actingUserID uint, action Action) error {
	if wb == nil {
		return errs.ErrWhiteboardNotFound
	}
	role := wb.RoleOf(actingUserID)
	if role == enums.ROLE_NONE {
		return errs.ErrNotAParticipant
	}
	return CheckRole(role, action)
}

// CheckRole applies the role/action table to an already-resolved role. The
// room manager uses it against its cached role without a store read.
func CheckRole(role enums.Role, action Action) error {
	if role == enums.ROLE_NONE {
		return errs.ErrNotAParticipant
	}
	switch action {
	case ActionView:
		if !role.CanView() {
			return errs.ErrInsufficientRole
		}
	case ActionMutateContent:
		if !role.CanMutate() {
			return errs.ErrInsufficientRole
		}
	case ActionInvite, ActionChangeRole, ActionDeleteWhiteboard, ActionRemoveParticipant:
		if !role.IsOwner() {
			return errs.ErrInsufficientRole
		}
	default:
		return errs.ErrInsufficientRole
	}
	return nil
}
