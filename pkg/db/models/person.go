package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a human who can be responsible for a house. Phones are stored
// already normalized (digits only); matching still normalizes both sides.
type Person struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	Mobile    *string   `gorm:"column:mobile" json:"mobile"`
	CPF       *string   `gorm:"column:cpf" json:"cpf"`
	Email     *string   `gorm:"column:email" json:"email"`
	RG        *string   `gorm:"column:rg" json:"rg"`
	Notes     *string   `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default GORM pluralization.
func (Person) TableName() string { return "people" }
