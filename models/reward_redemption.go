package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardRedemption records one reward claimed against accumulated points.
// PointsSpent is the threshold in force at redemption time and never changes
// afterwards, even if the settings are updated later.
type RewardRedemption struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	MemberID    uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	Member      Member    `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	MemberName  string    `gorm:"not null" json:"member_name"` // Snapshot of member name at time of write
	Description string    `gorm:"not null" json:"description"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	RedeemedAt  time.Time `gorm:"not null" json:"redeemed_at"`
}

func (r *RewardRedemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
