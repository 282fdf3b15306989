package people

import (
	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/types"
)

// CreatePersonInput carries the already-validated fields for a new person.
type CreatePersonInput struct {
	Name   string  `json:"name" validate:"required,min=1"`
	Phone  *string `json:"phone,omitempty"`
	Mobile *string `json:"mobile,omitempty"`
	CPF    *string `json:"cpf,omitempty"`
	Email  *string `json:"email,omitempty"`
	RG     *string `json:"rg,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// CreatePersonResult reports the resolved person and whether an existing row
// was reused via phone match.
type CreatePersonResult struct {
	ID     uuid.UUID `json:"id"`
	Reused bool      `json:"reused_person"`
}

// UpdatePersonInput uses tri-state fields: absent keys leave the column
// untouched, explicit nulls clear it, values set it.
type UpdatePersonInput struct {
	Name   types.Optional[string] `json:"name"`
	Phone  types.Optional[string] `json:"phone"`
	Mobile types.Optional[string] `json:"mobile"`
	CPF    types.Optional[string] `json:"cpf"`
	Email  types.Optional[string] `json:"email"`
	RG     types.Optional[string] `json:"rg"`
	Notes  types.Optional[string] `json:"notes"`
}

// Suggestion is an advisory name match surfaced to the caller. It never
// triggers a merge by itself.
type Suggestion struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone"`
}

// PersonListItem is a person row joined with the number of houses they are
// currently responsible for.
type PersonListItem struct {
	ID           uuid.UUID `gorm:"column:id" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	Phone        *string   `gorm:"column:phone" json:"phone"`
	Mobile       *string   `gorm:"column:mobile" json:"mobile"`
	CPF          *string   `gorm:"column:cpf" json:"cpf"`
	Email        *string   `gorm:"column:email" json:"email"`
	RG           *string   `gorm:"column:rg" json:"rg"`
	Notes        *string   `gorm:"column:notes" json:"notes"`
	ActiveHouses int64     `gorm:"column:active_houses" json:"active_houses"`
}
