package services

import (
	"errors"

	"settlement-service/internal/models"

	"gorm.io/gorm"
)

// RevenueShareService manages the single active split percentage per
// member. There is no effective-dated history; derived balances always
// use the current value.
type RevenueShareService struct {
	DB *gorm.DB
}

func NewRevenueShareService(db *gorm.DB) *RevenueShareService {
	return &RevenueShareService{DB: db}
}

// GetShare returns the member's configured split, synthesizing the
// default when none is stored.
func (s *RevenueShareService) GetShare(clientId, userId int) (*models.RevenueShare, error) {
	var share models.RevenueShare
	err := s.DB.Where("client_id = ? AND user_id = ?", clientId, userId).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.RevenueShare{
			ClientId:        clientId,
			UserId:          userId,
			PercentToMember: models.DefaultPercentToMember,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// SetShare stores the member's split percentage.
func (s *RevenueShareService) SetShare(clientId, userId, percent int, updatedBy string) (*models.RevenueShare, error) {
	if percent < 0 || percent > 100 {
		return nil, NewValidationError("percent_to_member", "must be between 0 and 100")
	}

	share := models.RevenueShare{
		ClientId:        clientId,
		UserId:          userId,
		PercentToMember: percent,
		UpdatedBy:       updatedBy,
	}

	err := s.DB.Where("client_id = ? AND user_id = ?", clientId, userId).
		Assign(models.RevenueShare{PercentToMember: percent, UpdatedBy: updatedBy}).
		FirstOrCreate(&share).Error
	if err != nil {
		return nil, err
	}

	return &share, nil
}
