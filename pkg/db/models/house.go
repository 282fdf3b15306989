package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/enums"
)

// House is a rentable unit, the central billable entity.
type House struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Street             *string           `gorm:"column:street" json:"street"`
	HouseNumber        *string           `gorm:"column:house_number" json:"house_number"`
	Complement         *string           `gorm:"column:complement" json:"complement"`
	CEP                *string           `gorm:"column:cep" json:"cep"`
	Reference          *string           `gorm:"column:reference" json:"reference"`
	MonthlyAmountCents int64             `gorm:"column:monthly_amount_cents;not null" json:"monthly_amount_cents"`
	Status             enums.HouseStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Notes              *string           `gorm:"column:notes" json:"notes"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default GORM pluralization.
func (House) TableName() string { return "houses" }
