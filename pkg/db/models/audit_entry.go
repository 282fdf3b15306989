package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/enums"
)

// AuditEntry is an append-only record of one mutation. Rows are never updated
// or deleted.
type AuditEntry struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Action    enums.AuditAction `gorm:"column:action;not null" json:"action"`
	Entity    string            `gorm:"column:entity;not null" json:"entity"`
	EntityID  string            `gorm:"column:entity_id;not null" json:"entity_id"`
	Summary   json.RawMessage   `gorm:"column:summary_json" json:"summary"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the historical audit_log name.
func (AuditEntry) TableName() string { return "audit_log" }
