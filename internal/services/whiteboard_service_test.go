package services_test

import (
	"testing"

	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps whiteboards, participants and invitations in memory with
// the same invariant behavior as the gorm repository.
type fakeStore struct {
	nextID      uint
	whiteboards map[uint]*models.Whiteboard
	invitations map[string]*models.InvitationCode
	deleted     []uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:      1,
		whiteboards: make(map[uint]*models.Whiteboard),
		invitations: make(map[string]*models.InvitationCode),
	}
}

func (f *fakeStore) CreateWhiteboard(ownerID uint, title string) (*models.Whiteboard, error) {
	wb := &models.Whiteboard{
		Title:   title,
		OwnerID: ownerID,
		Content: models.ContentBlob("[]"),
		Participants: []models.Participant{
			{WhiteboardID: f.nextID, UserID: ownerID, Role: enums.ROLE_OWNER},
		},
	}
	wb.ID = f.nextID
	f.nextID++
	f.whiteboards[wb.ID] = wb
	return wb, nil
}

func (f *fakeStore) FindWhiteboardByID(id uint) (*models.Whiteboard, error) {
	wb, ok := f.whiteboards[id]
	if !ok {
		return nil, errs.ErrWhiteboardNotFound
	}
	return wb, nil
}

func (f *fakeStore) GetUserWhiteboards(userID uint, page, size int) (*models.WhiteboardListResponse, error) {
	var responses []models.WhiteboardResponse
	for _, wb := range f.whiteboards {
		if wb.RoleOf(userID) != enums.ROLE_NONE {
			responses = append(responses, *wb.ToWhiteboardResponse())
		}
	}
	return &models.WhiteboardListResponse{
		Whiteboards: responses,
		Page:        page,
		Size:        size,
		Total:       int64(len(responses)),
	}, nil
}

func (f *fakeStore) CreateInvitation(invitation *models.InvitationCode) error {
	f.invitations[invitation.Code] = invitation
	return nil
}

func (f *fakeStore) FindInvitationByCode(code string) (*models.InvitationCode, error) {
	invitation, ok := f.invitations[code]
	if !ok {
		return nil, errs.ErrInvalidCode
	}
	return invitation, nil
}

func (f *fakeStore) DeleteInvitation(whiteboardID uint, code string) error {
	invitation, ok := f.invitations[code]
	if !ok || invitation.WhiteboardID != whiteboardID {
		return errs.ErrInvalidCode
	}
	delete(f.invitations, code)
	return nil
}

func (f *fakeStore) AddParticipant(whiteboardID, userID uint, role enums.Role) error {
	wb, ok := f.whiteboards[whiteboardID]
	if !ok {
		return errs.ErrWhiteboardNotFound
	}
	if wb.RoleOf(userID) != enums.ROLE_NONE {
		return errs.ErrAlreadyParticipant
	}
	wb.Participants = append(wb.Participants, models.Participant{
		WhiteboardID: whiteboardID,
		UserID:       userID,
		Role:         role,
	})
	return nil
}

func (f *fakeStore) ChangeParticipantRole(whiteboardID, targetUserID uint, newRole enums.Role) error {
	wb, ok := f.whiteboards[whiteboardID]
	if !ok {
		return errs.ErrWhiteboardNotFound
	}
	current := wb.RoleOf(targetUserID)
	if current == enums.ROLE_NONE {
		return errs.ErrParticipantNotFound
	}
	if current == newRole {
		return nil
	}
	if current == enums.ROLE_OWNER {
		return errs.ErrInvalidRole
	}
	for i := range wb.Participants {
		if newRole == enums.ROLE_OWNER && wb.Participants[i].Role == enums.ROLE_OWNER {
			wb.Participants[i].Role = enums.ROLE_EDIT
		}
	}
	for i := range wb.Participants {
		if wb.Participants[i].UserID == targetUserID {
			wb.Participants[i].Role = newRole
		}
	}
	if newRole == enums.ROLE_OWNER {
		wb.OwnerID = targetUserID
	}
	return nil
}

func (f *fakeStore) RemoveParticipant(whiteboardID, userID uint) error {
	wb, ok := f.whiteboards[whiteboardID]
	if !ok {
		return errs.ErrWhiteboardNotFound
	}
	for i := range wb.Participants {
		if wb.Participants[i].UserID == userID {
			if wb.Participants[i].Role == enums.ROLE_OWNER {
				return errs.ErrInvalidRole
			}
			wb.Participants = append(wb.Participants[:i], wb.Participants[i+1:]...)
			return nil
		}
	}
	return errs.ErrParticipantNotFound
}

func (f *fakeStore) DeleteWhiteboard(whiteboardID uint) error {
	if _, ok := f.whiteboards[whiteboardID]; !ok {
		return errs.ErrWhiteboardNotFound
	}
	delete(f.whiteboards, whiteboardID)
	for code, invitation := range f.invitations {
		if invitation.WhiteboardID == whiteboardID {
			delete(f.invitations, code)
		}
	}
	f.deleted = append(f.deleted, whiteboardID)
	return nil
}

func ownerCount(wb *models.Whiteboard) int {
	count := 0
	for _, p := range wb.Participants {
		if p.Role == enums.ROLE_OWNER {
			count++
		}
	}
	return count
}

func setup(t *testing.T) (*services.WhiteboardService, *fakeStore, uint) {
	t.Helper()
	store := newFakeStore()
	service := services.NewWhiteboardService(store)
	wb, err := service.CreateWhiteboard(1, "Sprint Plan")
	require.NoError(t, err)
	return service, store, wb.ID
}

func TestCreateWhiteboardSeedsSingleOwner(t *testing.T) {
	_, store, id := setup(t)
	wb := store.whiteboards[id]
	require.Len(t, wb.Participants, 1)
	assert.Equal(t, enums.ROLE_OWNER, wb.Participants[0].Role)
	assert.Equal(t, uint(1), wb.OwnerID)
}

func TestShareRequiresOwner(t *testing.T) {
	service, store, id := setup(t)
	require.NoError(t, store.AddParticipant(id, 2, enums.ROLE_EDIT))

	_, err := service.ShareWhiteboard(id, 2, "read", "")
	assert.Equal(t, errs.ErrInsufficientRole, err)

	_, err = service.ShareWhiteboard(id, 99, "read", "")
	assert.Equal(t, errs.ErrNotAParticipant, err)

	code, err := service.ShareWhiteboard(id, 1, "edit", "bob@x.com")
	require.NoError(t, err)
	assert.Len(t, code, 40)
}

func TestShareRejectsOwnerRole(t *testing.T) {
	service, _, id := setup(t)
	_, err := service.ShareWhiteboard(id, 1, "owner", "")
	assert.Equal(t, errs.ErrInvalidRole, err)
}

func TestJoinWithRecipientConstraint(t *testing.T) {
	service, _, id := setup(t)
	code, err := service.ShareWhiteboard(id, 1, "edit", "bob@x.com")
	require.NoError(t, err)

	mallory := &models.User{Email: "mallory@x.com"}
	mallory.ID = 3
	_, err = service.JoinWhiteboard(code, mallory)
	assert.Equal(t, errs.ErrRecipientMismatch, err)

	bob := &models.User{Email: "bob@x.com"}
	bob.ID = 2
	wb, err := service.JoinWhiteboard(code, bob)
	require.NoError(t, err)
	assert.Equal(t, id, wb.ID)

	found := false
	for _, p := range wb.Participants {
		if p.UserID == 2 {
			found = true
			assert.Equal(t, "edit", p.Role)
		}
	}
	assert.True(t, found)
}

func TestJoinOpenInvitation(t *testing.T) {
	service, _, id := setup(t)
	code, err := service.ShareWhiteboard(id, 1, "read", "")
	require.NoError(t, err)

	anyone := &models.User{Email: "anyone@x.com"}
	anyone.ID = 7
	_, err = service.JoinWhiteboard(code, anyone)
	assert.NoError(t, err)
}

func TestJoinTwiceIsConflict(t *testing.T) {
	service, store, id := setup(t)
	code, err := service.ShareWhiteboard(id, 1, "edit", "")
	require.NoError(t, err)

	bob := &models.User{Email: "bob@x.com"}
	bob.ID = 2
	_, err = service.JoinWhiteboard(code, bob)
	require.NoError(t, err)

	_, err = service.JoinWhiteboard(code, bob)
	assert.Equal(t, errs.ErrAlreadyParticipant, err)

	// No duplicate row, no downgrade.
	count := 0
	for _, p := range store.whiteboards[id].Participants {
		if p.UserID == 2 {
			count++
			assert.Equal(t, enums.ROLE_EDIT, p.Role)
		}
	}
	assert.Equal(t, 1, count)
}

func TestJoinInvalidCode(t *testing.T) {
	service, _, _ := setup(t)
	user := &models.User{Email: "bob@x.com"}
	user.ID = 2
	_, err := service.JoinWhiteboard("deadbeef", user)
	assert.Equal(t, errs.ErrInvalidCode, err)
}

func TestChangeRolePreservesSingleOwner(t *testing.T) {
	service, store, id := setup(t)
	require.NoError(t, store.AddParticipant(id, 2, enums.ROLE_EDIT))

	// Only the owner may change roles.
	_, err := service.ChangeRole(id, 2, 2, "read")
	assert.Equal(t, errs.ErrInsufficientRole, err)

	// Demoting the sole owner directly is rejected.
	_, err = service.ChangeRole(id, 1, 1, "read")
	assert.Equal(t, errs.ErrInvalidRole, err)
	assert.Equal(t, 1, ownerCount(store.whiteboards[id]))

	// Ownership transfer swaps atomically.
	newRole, err := service.ChangeRole(id, 1, 2, "owner")
	require.NoError(t, err)
	assert.Equal(t, enums.ROLE_OWNER, newRole)
	wb := store.whiteboards[id]
	assert.Equal(t, 1, ownerCount(wb))
	assert.Equal(t, uint(2), wb.OwnerID)
	assert.Equal(t, enums.ROLE_EDIT, wb.RoleOf(1))
}

func TestChangeRoleUnknownTarget(t *testing.T) {
	service, _, id := setup(t)
	_, err := service.ChangeRole(id, 1, 42, "read")
	assert.Equal(t, errs.ErrParticipantNotFound, err)
}

func TestRemoveParticipant(t *testing.T) {
	service, store, id := setup(t)
	require.NoError(t, store.AddParticipant(id, 2, enums.ROLE_READ))

	err := service.RemoveParticipant(id, 2, 1)
	assert.Equal(t, errs.ErrInsufficientRole, err)

	require.NoError(t, service.RemoveParticipant(id, 1, 2))
	assert.Equal(t, enums.ROLE_NONE, store.whiteboards[id].RoleOf(2))

	// The owner cannot be removed.
	err = service.RemoveParticipant(id, 1, 1)
	assert.Equal(t, errs.ErrInvalidRole, err)
}

func TestDeleteWhiteboardCascades(t *testing.T) {
	service, store, id := setup(t)
	_, err := service.ShareWhiteboard(id, 1, "read", "")
	require.NoError(t, err)

	require.NoError(t, service.DeleteWhiteboard(id, 1))
	assert.Empty(t, store.invitations)
	assert.NotContains(t, store.whiteboards, id)

	_, err = service.GetWhiteboard(id, 1)
	assert.Equal(t, errs.ErrWhiteboardNotFound, err)
}

func TestGetWhiteboardAccess(t *testing.T) {
	service, _, id := setup(t)
	_, err := service.GetWhiteboard(id, 99)
	assert.Equal(t, errs.ErrNotAParticipant, err)

	wb, err := service.GetWhiteboard(id, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Plan", wb.Title)
}

func TestRevokeInvitation(t *testing.T) {
	service, _, id := setup(t)
	code, err := service.ShareWhiteboard(id, 1, "read", "")
	require.NoError(t, err)

	err = service.RevokeInvitation(id, 1, code)
	require.NoError(t, err)

	user := &models.User{Email: "bob@x.com"}
	user.ID = 2
	_, err = service.JoinWhiteboard(code, user)
	assert.Equal(t, errs.ErrInvalidCode, err)
}
