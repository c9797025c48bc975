package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPointsToReward is the threshold written when an owner's settings
// record is created on first access.
const DefaultPointsToReward = 100

// Settings is the singleton configuration record for one owner. The unique
// index on OwnerID is what makes concurrent first-access creation safe.
type Settings struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"owner_id"`
	PointsToReward int       `gorm:"not null;default:100" json:"points_to_reward"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
