package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is one tracked person in an owner's ledger. TotalPoints and
// RewardCount are maintained exclusively by the ledger service inside
// transactions; nothing else writes them.
type Member struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	RewardCount int       `gorm:"not null;default:0" json:"reward_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
