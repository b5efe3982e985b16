package services

import (
	"socketBoard/internal/access"
	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/utils"
)

// WhiteboardStore is the persistence surface the service drives. The gorm
// repository is the production implementation.
type WhiteboardStore interface {
	CreateWhiteboard(ownerID uint, title string) (*models.Whiteboard, error)
	FindWhiteboardByID(id uint) (*models.Whiteboard, error)
	GetUserWhiteboards(userID uint, page, size int) (*models.WhiteboardListResponse, error)
	CreateInvitation(invitation *models.InvitationCode) error
	FindInvitationByCode(code string) (*models.InvitationCode, error)
	DeleteInvitation(whiteboardID uint, code string) error
	AddParticipant(whiteboardID, userID uint, role enums.Role) error
	ChangeParticipantRole(whiteboardID, targetUserID uint, newRole enums.Role) error
	RemoveParticipant(whiteboardID, userID uint) error
	DeleteWhiteboard(whiteboardID uint) error
}

// WhiteboardService enforces the access rules in front of the document
// store: every operation names the acting user and is checked against the
// current participant rows before anything is written.
type WhiteboardService struct {
	whiteboardRepo WhiteboardStore
}

func NewWhiteboardService(whiteboardRepo WhiteboardStore) *WhiteboardService {
	return &WhiteboardService{
		whiteboardRepo: whiteboardRepo,
	}
}

func (ws *WhiteboardService) CreateWhiteboard(ownerID uint, title string) (*models.WhiteboardResponse, error) {
	if title == "" {
		return nil, errs.ErrInvalidParams
	}
	whiteboard, err := ws.whiteboardRepo.CreateWhiteboard(ownerID, title)
	if err != nil {
		return nil, err
	}
	return whiteboard.ToWhiteboardResponse(), nil
}

func (ws *WhiteboardService) GetWhiteboard(whiteboardID, actingUserID uint) (*models.WhiteboardResponse, error) {
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return nil, err
	}
	if err := access.CanPerform(whiteboard, actingUserID, access.ActionView); err != nil {
		return nil, err
	}
	return whiteboard.ToWhiteboardResponse(), nil
}

func (ws *WhiteboardService) GetUserWhiteboards(userID uint, page, size int) (*models.WhiteboardListResponse, error) {
	if page < 1 || size < 1 {
		return nil, errs.ErrInvalidPageOrSize
	}
	return ws.whiteboardRepo.GetUserWhiteboards(userID, page, size)
}

// ShareWhiteboard issues an invitation code bound to a role and an optional
// recipient email. Only read and edit are grantable through codes; ownership
// moves only through an explicit role change.
func (ws *WhiteboardService) ShareWhiteboard(whiteboardID, issuerID uint, roleName, recipientEmail string) (string, error) {
	role, ok := enums.ParseRole(roleName)
	if !ok || role == enums.ROLE_OWNER {
		return "", errs.ErrInvalidRole
	}
	if recipientEmail == "" {
		recipientEmail = models.RecipientUnregistered
	}

	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return "", err
	}
	if err := access.CanPerform(whiteboard, issuerID, access.ActionInvite); err != nil {
		return "", err
	}

	code, err := utils.GenerateShareCode()
	if err != nil {
		return "", err
	}
	invitation := &models.InvitationCode{
		WhiteboardID:   whiteboardID,
		Code:           code,
		Role:           role,
		RecipientEmail: recipientEmail,
	}
	if err := ws.whiteboardRepo.CreateInvitation(invitation); err != nil {
		return "", err
	}
	return code, nil
}

// JoinWhiteboard redeems a share code for the given user. Codes are
// repeatable; a second redemption by the same user is the already-participant
// conflict and leaves the existing row untouched.
func (ws *WhiteboardService) JoinWhiteboard(code string, user *models.User) (*models.WhiteboardResponse, error) {
	invitation, err := ws.whiteboardRepo.FindInvitationByCode(code)
	if err != nil {
		return nil, err
	}
	if !invitation.OpenToAnyone() && invitation.RecipientEmail != user.Email {
		return nil, errs.ErrRecipientMismatch
	}
	if err := ws.whiteboardRepo.AddParticipant(invitation.WhiteboardID, user.ID, invitation.Role); err != nil {
		return nil, err
	}
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(invitation.WhiteboardID)
	if err != nil {
		return nil, err
	}
	return whiteboard.ToWhiteboardResponse(), nil
}

func (ws *WhiteboardService) RevokeInvitation(whiteboardID, actingUserID uint, code string) error {
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return err
	}
	if err := access.CanPerform(whiteboard, actingUserID, access.ActionInvite); err != nil {
		return err
	}
	return ws.whiteboardRepo.DeleteInvitation(whiteboardID, code)
}

func (ws *WhiteboardService) ChangeRole(whiteboardID, actingUserID, targetUserID uint, roleName string) (enums.Role, error) {
	role, ok := enums.ParseRole(roleName)
	if !ok {
		return enums.ROLE_NONE, errs.ErrInvalidRole
	}
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return enums.ROLE_NONE, err
	}
	if err := access.CanPerform(whiteboard, actingUserID, access.ActionChangeRole); err != nil {
		return enums.ROLE_NONE, err
	}
	if err := ws.whiteboardRepo.ChangeParticipantRole(whiteboardID, targetUserID, role); err != nil {
		return enums.ROLE_NONE, err
	}
	return role, nil
}

func (ws *WhiteboardService) RemoveParticipant(whiteboardID, actingUserID, targetUserID uint) error {
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return err
	}
	if err := access.CanPerform(whiteboard, actingUserID, access.ActionRemoveParticipant); err != nil {
		return err
	}
	return ws.whiteboardRepo.RemoveParticipant(whiteboardID, targetUserID)
}

func (ws *WhiteboardService) DeleteWhiteboard(whiteboardID, actingUserID uint) error {
	whiteboard, err := ws.whiteboardRepo.FindWhiteboardByID(whiteboardID)
	if err != nil {
		return err
	}
	if err := access.CanPerform(whiteboard, actingUserID, access.ActionDeleteWhiteboard); err != nil {
		return err
	}
	return ws.whiteboardRepo.DeleteWhiteboard(whiteboardID)
}
