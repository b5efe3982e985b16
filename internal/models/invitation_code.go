package models

import (
	"socketBoard/internal/enums"

	"gorm.io/gorm"
)

// RecipientUnregistered marks an invitation open to anyone holding the code.
const RecipientUnregistered = "unregistered"

// InvitationCode is a redeemable share token. Codes are multi-redeemable and
// do not expire; they live and die with their whiteboard, or are revoked
// explicitly by the owner.
type InvitationCode struct {
	gorm.Model
	WhiteboardID   uint       `gorm:"not null;index" json:"whiteboard_id"`
	Code           string     `gorm:"unique;not null" json:"code"`
	Role           enums.Role `gorm:"not null" json:"-"`
	RecipientEmail string     `gorm:"not null" json:"recipient_email"`
}

// OpenToAnyone reports whether the code carries no recipient constraint.
func (ic *InvitationCode) OpenToAnyone() bool {
	return ic.RecipientEmail == RecipientUnregistered
}
