package models

import (
	"time"

	"github.com/google/uuid"
)

// WellEvent logs an incident on the shared water well (maintenance, outage,
// repairs). Type is free text supplied by the operator.
type WellEvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	HappenedAt time.Time `gorm:"column:happened_at;not null" json:"happened_at"`
	Notes      *string   `gorm:"column:notes" json:"notes"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default GORM pluralization.
func (WellEvent) TableName() string { return "well_events" }
