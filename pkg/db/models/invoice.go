package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/enums"
)

// Invoice is one month's billing obligation for a house. AmountCents is a
// snapshot of the house's monthly amount at generation time; later changes to
// the house never touch existing invoices. (house_id, year, month) is unique.
type Invoice struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HouseID     uuid.UUID           `gorm:"column:house_id;type:uuid;not null;index" json:"house_id"`
	Year        int                 `gorm:"column:year;not null" json:"year"`
	Month       int                 `gorm:"column:month;not null" json:"month"`
	AmountCents int64               `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Status      enums.InvoiceStatus `gorm:"column:status;not null;default:'open'" json:"status"`
	DueDate     *time.Time          `gorm:"column:due_date" json:"due_date"`
	PaidAt      *time.Time          `gorm:"column:paid_at" json:"paid_at"`
	Notes       *string             `gorm:"column:notes" json:"notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default GORM pluralization.
func (Invoice) TableName() string { return "invoices" }

// PeriodKey orders billing periods by simple integer comparison.
func (i Invoice) PeriodKey() int { return i.Year*12 + i.Month }
