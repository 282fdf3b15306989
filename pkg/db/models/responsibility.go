package models

import (
	"time"

	"github.com/google/uuid"
)

// Responsibility links a house to the person accountable for it over the
// half-open interval [StartAt, EndAt). EndAt nil means currently active; the
// schema enforces at most one open row per house via a partial unique index.
type Responsibility struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HouseID   uuid.UUID  `gorm:"column:house_id;type:uuid;not null;index" json:"house_id"`
	PersonID  uuid.UUID  `gorm:"column:person_id;type:uuid;not null;index" json:"person_id"`
	StartAt   time.Time  `gorm:"column:start_at;not null" json:"start_at"`
	EndAt     *time.Time `gorm:"column:end_at" json:"end_at"`
	Reason    *string    `gorm:"column:reason" json:"reason"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default GORM pluralization.
func (Responsibility) TableName() string { return "house_responsibilities" }
