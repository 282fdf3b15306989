package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/enums"
)

// Payment records money received against exactly one invoice. AmountCents is
// copied from the invoice at pay time, never referenced live.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HouseID     uuid.UUID           `gorm:"column:house_id;type:uuid;not null;index" json:"house_id"`
	InvoiceID   uuid.UUID           `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	AmountCents int64               `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Method      enums.PaymentMethod `gorm:"column:method;not null" json:"method"`
	PaidAt      time.Time           `gorm:"column:paid_at;not null" json:"paid_at"`
	Notes       *string             `gorm:"column:notes" json:"notes"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the default GORM pluralization.
func (Payment) TableName() string { return "payments" }
