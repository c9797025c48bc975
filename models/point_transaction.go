package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointTransaction is an append-only record of points earned by a member.
// Rows are never updated; they are only removed when their member is removed.
type PointTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	MemberID      uuid.UUID `gorm:"type:uuid;not null;index" json:"member_id"`
	Member        Member    `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	MemberName    string    `gorm:"not null" json:"member_name"` // Snapshot of member name at time of write
	Points        int       `gorm:"not null" json:"points"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *PointTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
