package models

import (
	"socketBoard/internal/enums"

	"gorm.io/gorm"
)

// Whiteboard is the durable record of a shared drawing surface. Content is an
// opaque sequence of drawing elements, stored as jsonb and never interpreted
// here.
type Whiteboard struct {
	gorm.Model
	Title        string           `gorm:"not null" json:"title"`
	OwnerID      uint             `gorm:"not null;index" json:"owner_id"`
	Participants []Participant    `gorm:"constraint:OnDelete:CASCADE" json:"participants"`
	Invitations  []InvitationCode `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content      ContentBlob      `gorm:"type:jsonb" json:"content"`
}

// Participant is a (user, role) membership row, unique per user within a
// whiteboard. Exactly one row per whiteboard carries ROLE_OWNER.
type Participant struct {
	gorm.Model
	WhiteboardID uint       `gorm:"not null;uniqueIndex:idx_board_user" json:"whiteboard_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_board_user" json:"user_id"`
	Role         enums.Role `gorm:"not null" json:"-"`
}

func (p *Participant) ToParticipantResponse() ParticipantResponse {
	return ParticipantResponse{
		UserID: p.UserID,
		Role:   p.Role.String(),
	}
}

// RoleOf returns the role the given user holds on this whiteboard, or
// ROLE_NONE when the user is not a participant.
func (wb *Whiteboard) RoleOf(userID uint) enums.Role {
	for _, p := range wb.Participants {
		if p.UserID == userID {
			return p.Role
		}
	}
	return enums.ROLE_NONE
}

func (wb *Whiteboard) ToWhiteboardResponse() *WhiteboardResponse {
	participants := make([]ParticipantResponse, 0, len(wb.Participants))
	for i := range wb.Participants {
		participants = append(participants, wb.Participants[i].ToParticipantResponse())
	}
	return &WhiteboardResponse{
		ID:           wb.ID,
		Title:        wb.Title,
		OwnerID:      wb.OwnerID,
		Participants: participants,
		Content:      wb.Content,
		CreatedAt:    wb.CreatedAt,
		UpdatedAt:    wb.UpdatedAt,
	}
}
