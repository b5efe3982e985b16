package repositories

import (
	"errors"
	"strings"

	"socketBoard/internal/enums"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WhiteboardRepository struct {
	db *gorm.DB
}

func NewWhiteboardRepository(db *gorm.DB) *WhiteboardRepository {
	return &WhiteboardRepository{
		db: db,
	}
}

// CreateWhiteboard inserts the whiteboard together with its single owner
// participant row. The two rows are created in one transaction so a board
// can never exist without its owner.
func (wr *WhiteboardRepository) CreateWhiteboard(ownerID uint, title string) (*models.Whiteboard, error) {
	whiteboard := models.Whiteboard{
		Title:   title,
		OwnerID: ownerID,
		Content: models.ContentBlob("[]"),
	}

	err := wr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&whiteboard).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Participant{
			WhiteboardID: whiteboard.ID,
			UserID:       ownerID,
			Role:         enums.ROLE_OWNER,
		}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return wr.FindWhiteboardByID(whiteboard.ID)
}

func (wr *WhiteboardRepository) FindWhiteboardByID(id uint) (*models.Whiteboard, error) {
	var whiteboard models.Whiteboard
	result := wr.db.Preload("Participants").First(&whiteboard, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWhiteboardNotFound
		}
		return nil, result.Error
	}
	return &whiteboard, nil
}

func (wr *WhiteboardRepository) GetUserWhiteboards(userID uint, page, size int) (*models.WhiteboardListResponse, error) {
	var whiteboards []models.Whiteboard
	var total int64

	transactionErr := wr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("Participants").
			Where("id IN (SELECT whiteboard_id FROM participants WHERE user_id = ? AND deleted_at IS NULL)", userID).
			Order("updated_at DESC").
			Find(&whiteboards).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Whiteboard{}).
			Where("id IN (SELECT whiteboard_id FROM participants WHERE user_id = ? AND deleted_at IS NULL)", userID).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		return nil, transactionErr
	}

	responses := make([]models.WhiteboardResponse, 0, len(whiteboards))
	for i := range whiteboards {
		responses = append(responses, *whiteboards[i].ToWhiteboardResponse())
	}

	return &models.WhiteboardListResponse{
		Whiteboards: responses,
		Page:        page,
		Size:        size,
		Total:       total,
	}, nil
}

func (wr *WhiteboardRepository) GetParticipantRole(whiteboardID, userID uint) (enums.Role, error) {
	var participant models.Participant
	result := wr.db.
		Where("whiteboard_id = ? AND user_id = ?", whiteboardID, userID).
		First(&participant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return enums.ROLE_NONE, errs.ErrNotAParticipant
		}
		return enums.ROLE_NONE, result.Error
	}
	return participant.Role, nil
}

func (wr *WhiteboardRepository) CreateInvitation(invitation *models.InvitationCode) error {
	result := wr.db.Create(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrInvitationCreationFailed
	}
	return nil
}

func (wr *WhiteboardRepository) FindInvitationByCode(code string) (*models.InvitationCode, error) {
	var invitation models.InvitationCode
	result := wr.db.Where("code = ?", code).First(&invitation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidCode
		}
		return nil, result.Error
	}
	return &invitation, nil
}

func (wr *WhiteboardRepository) DeleteInvitation(whiteboardID uint, code string) error {
	result := wr.db.Unscoped().
		Where("whiteboard_id = ? AND code = ?", whiteboardID, code).
		Delete(&models.InvitationCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrInvalidCode
	}
	return nil
}

// AddParticipant inserts a membership row for the user. Redeeming a code the
// user already redeemed is a no-op conflict: the existing row is never
// duplicated or downgraded. Concurrent redemptions by the same user are
// caught by the unique (whiteboard_id, user_id) index.
func (wr *WhiteboardRepository) AddParticipant(whiteboardID, userID uint, role enums.Role) error {
	return wr.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Participant
		err := tx.
			Where("whiteboard_id = ? AND user_id = ?", whiteboardID, userID).
			First(&existing).Error
		if err == nil {
			return errs.ErrAlreadyParticipant
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		createErr := tx.Create(&models.Participant{
			WhiteboardID: whiteboardID,
			UserID:       userID,
			Role:         role,
		}).Error
		if createErr != nil && isUniqueViolation(createErr) {
			return errs.ErrAlreadyParticipant
		}
		return createErr
	})
}

// ChangeParticipantRole updates targetUser's role while keeping exactly one
// owner per whiteboard. Promoting a participant to owner atomically demotes
// the current owner to edit in the same transaction; demoting the sole owner
// directly is rejected.
func (wr *WhiteboardRepository) ChangeParticipantRole(whiteboardID, targetUserID uint, newRole enums.Role) error {
	return wr.db.Transaction(func(tx *gorm.DB) error {
		var whiteboard models.Whiteboard
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&whiteboard, whiteboardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrWhiteboardNotFound
			}
			return err
		}

		var target models.Participant
		err := tx.
			Where("whiteboard_id = ? AND user_id = ?", whiteboardID, targetUserID).
			First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrParticipantNotFound
			}
			return err
		}

		if target.Role == newRole {
			return nil
		}

		if target.Role == enums.ROLE_OWNER {
			// The sole owner can only leave the role through an
			// ownership transfer onto someone else.
			return errs.ErrInvalidRole
		}

		if newRole == enums.ROLE_OWNER {
			if err := tx.Model(&models.Participant{}).
				Where("whiteboard_id = ? AND role = ?", whiteboardID, enums.ROLE_OWNER).
				Update("role", enums.ROLE_EDIT).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Whiteboard{}).
				Where("id = ?", whiteboardID).
				Update("owner_id", targetUserID).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Participant{}).
			Where("whiteboard_id = ? AND user_id = ?", whiteboardID, targetUserID).
			Update("role", newRole).Error
	})
}

func (wr *WhiteboardRepository) RemoveParticipant(whiteboardID, userID uint) error {
	return wr.db.Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		err := tx.
			Where("whiteboard_id = ? AND user_id = ?", whiteboardID, userID).
			First(&participant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrParticipantNotFound
			}
			return err
		}
		if participant.Role == enums.ROLE_OWNER {
			return errs.ErrInvalidRole
		}
		return tx.Unscoped().Delete(&participant).Error
	})
}

// DeleteWhiteboard removes the whiteboard with every participant and
// invitation row referencing it, all rows or none.
func (wr *WhiteboardRepository) DeleteWhiteboard(whiteboardID uint) error {
	return wr.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().Delete(&models.Whiteboard{}, whiteboardID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrWhiteboardNotFound
		}
		if err := tx.Unscoped().
			Where("whiteboard_id = ?", whiteboardID).
			Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().
			Where("whiteboard_id = ?", whiteboardID).
			Delete(&models.InvitationCode{}).Error
	})
}

func (wr *WhiteboardRepository) ReplaceContent(whiteboardID uint, content models.ContentBlob) error {
	result := wr.db.Model(&models.Whiteboard{}).
		Where("id = ?", whiteboardID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrWhiteboardNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "23505")
}
