package houses

import (
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/internal/people"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
	"github.com/casaflow/casaflow-backend/pkg/types"
)

// ResponsibleInput is a tagged union: either an existing person id, or a
// name (with optional phone) to resolve through the people registry.
type ResponsibleInput struct {
	PersonID *uuid.UUID `json:"person_id,omitempty"`
	Name     *string    `json:"name,omitempty"`
	Phone    *string    `json:"phone,omitempty"`
}

// Validate enforces exhaustive handling of exactly one variant.
func (r ResponsibleInput) Validate() error {
	hasID := r.PersonID != nil
	hasName := r.Name != nil && *r.Name != ""
	if hasID == hasName {
		return pkgerrors.New(pkgerrors.CodeValidation, "responsible requires either person_id or name, not both")
	}
	if hasID && r.Phone != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone only applies when resolving a responsible by name")
	}
	return nil
}

// QuickCreateInput carries the fields for house creation. Status is always
// derived, never supplied.
type QuickCreateInput struct {
	Street             *string           `json:"street,omitempty"`
	HouseNumber        *string           `json:"house_number,omitempty"`
	Complement         *string           `json:"complement,omitempty"`
	CEP                *string           `json:"cep,omitempty"`
	Reference          *string           `json:"reference,omitempty"`
	Notes              *string           `json:"notes,omitempty"`
	MonthlyAmountCents *int64            `json:"monthly_amount_cents,omitempty"`
	Responsible        *ResponsibleInput `json:"responsible,omitempty"`
}

// QuickCreateResult reports the new house plus how the responsible resolved,
// when one was supplied.
type QuickCreateResult struct {
	HouseID     uuid.UUID           `json:"house_id"`
	PersonID    *uuid.UUID          `json:"person_id,omitempty"`
	Reused      *bool               `json:"reused_person,omitempty"`
	Suggestions []people.Suggestion `json:"suggestions,omitempty"`
}

// AssignResult reports how the responsible resolved. Suggestions surface
// advisory name matches; they never block the assignment.
type AssignResult struct {
	PersonID    uuid.UUID           `json:"person_id"`
	Reused      bool                `json:"reused_person"`
	Suggestions []people.Suggestion `json:"suggestions,omitempty"`
}

// UpdateHouseInput uses tri-state fields, mirroring the person update
// semantics. Status and the monthly amount can be replaced but not cleared.
type UpdateHouseInput struct {
	Street             types.Optional[string] `json:"street"`
	HouseNumber        types.Optional[string] `json:"house_number"`
	Complement         types.Optional[string] `json:"complement"`
	CEP                types.Optional[string] `json:"cep"`
	Reference          types.Optional[string] `json:"reference"`
	Notes              types.Optional[string] `json:"notes"`
	MonthlyAmountCents types.Optional[int64]  `json:"monthly_amount_cents"`
	Status             types.Optional[string] `json:"status"`
}

// ListFilter narrows the house listing.
type ListFilter struct {
	Search string
	Status *enums.HouseStatus
}

// HouseListItem is a house row joined with its current responsible.
type HouseListItem struct {
	ID                 uuid.UUID         `gorm:"column:id" json:"id"`
	Street             *string           `gorm:"column:street" json:"street"`
	HouseNumber        *string           `gorm:"column:house_number" json:"house_number"`
	Complement         *string           `gorm:"column:complement" json:"complement"`
	CEP                *string           `gorm:"column:cep" json:"cep"`
	Reference          *string           `gorm:"column:reference" json:"reference"`
	MonthlyAmountCents int64             `gorm:"column:monthly_amount_cents" json:"monthly_amount_cents"`
	Status             enums.HouseStatus `gorm:"column:status" json:"status"`
	Notes              *string           `gorm:"column:notes" json:"notes"`
	CreatedAt          time.Time         `gorm:"column:created_at" json:"created_at"`
	ResponsibleID      *uuid.UUID        `gorm:"column:responsible_id" json:"responsible_id"`
	ResponsibleName    *string           `gorm:"column:responsible_name" json:"responsible_name"`
	ResponsiblePhone   *string           `gorm:"column:responsible_phone" json:"responsible_phone"`
}

// ListResult is one page of houses with pagination metadata.
type ListResult struct {
	Items      []HouseListItem `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// HistoryItem is one responsibility interval joined with the person's
// current name and phone.
type HistoryItem struct {
	ID          uuid.UUID  `gorm:"column:id" json:"id"`
	PersonID    uuid.UUID  `gorm:"column:person_id" json:"person_id"`
	PersonName  string     `gorm:"column:person_name" json:"person_name"`
	PersonPhone *string    `gorm:"column:person_phone" json:"person_phone"`
	StartAt     time.Time  `gorm:"column:start_at" json:"start_at"`
	EndAt       *time.Time `gorm:"column:end_at" json:"end_at"`
}

// HouseDetails is the full read model for one house.
type HouseDetails struct {
	House              models.House     `json:"house"`
	CurrentResponsible *models.Person   `json:"current_responsible"`
	History            []HistoryItem    `json:"history"`
	RecentInvoices     []models.Invoice `json:"recent_invoices"`
}

// PendingHouseItem flags a house that still needs data before it can bill.
// Reasons are computed independent of the status column.
type PendingHouseItem struct {
	ID          uuid.UUID             `json:"id"`
	Street      *string               `json:"street"`
	HouseNumber *string               `json:"house_number"`
	Status      enums.HouseStatus     `json:"status"`
	Reasons     []enums.PendingReason `json:"pending_reasons"`
}
