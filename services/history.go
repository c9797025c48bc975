package services

import (
	"rewardtrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryService answers read-only queries over the append-only event
// history. It never writes.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// ListPointTransactions returns a member's point transactions, newest
// effective date first with creation time breaking ties. Members with no
// history yield an empty slice, not an error.
func (s *HistoryService) ListPointTransactions(ownerID, memberID uuid.UUID) ([]models.PointTransaction, error) {
	var transactions []models.PointTransaction
	err := s.db.
		Where("owner_id = ? AND member_id = ?", ownerID, memberID).
		Order("effective_date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.PointTransaction{}
	}
	return transactions, nil
}

// ListAllPointTransactions returns every point transaction in the owner's
// ledger with the same ordering as the per-member listing. Used by exports.
func (s *HistoryService) ListAllPointTransactions(ownerID uuid.UUID) ([]models.PointTransaction, error) {
	var transactions []models.PointTransaction
	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("effective_date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.PointTransaction{}
	}
	return transactions, nil
}

// ListRewardRedemptions returns a member's redemptions, newest first.
func (s *HistoryService) ListRewardRedemptions(ownerID, memberID uuid.UUID) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	err := s.db.
		Where("owner_id = ? AND member_id = ?", ownerID, memberID).
		Order("redeemed_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, err
	}
	if redemptions == nil {
		redemptions = []models.RewardRedemption{}
	}
	return redemptions, nil
}

// ListAllRewardRedemptions returns every redemption in the owner's ledger,
// newest first. Used by exports.
func (s *HistoryService) ListAllRewardRedemptions(ownerID uuid.UUID) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("redeemed_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, err
	}
	if redemptions == nil {
		redemptions = []models.RewardRedemption{}
	}
	return redemptions, nil
}
