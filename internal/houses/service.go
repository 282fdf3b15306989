package houses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/internal/people"
	"github.com/casaflow/casaflow-backend/pkg/db"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
	"github.com/casaflow/casaflow-backend/pkg/types"
)

const (
	// fallbackMonthlyAmountCents applies when neither the caller nor the
	// configuration supplies a monthly amount.
	fallbackMonthlyAmountCents int64 = 9000

	recentInvoiceLimit = 12

	openResponsibilityConstraint = "ux_house_responsibilities_open"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// personRegistry is the slice of the people service the house flows need.
type personRegistry interface {
	Create(ctx context.Context, input people.CreatePersonInput) (people.CreatePersonResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	Suggest(ctx context.Context, name string) ([]people.Suggestion, error)
}

// Service owns the house registry and the responsibility tracker.
type Service struct {
	db            txRunner
	repo          Repository
	people        personRegistry
	audit         audit.Recorder
	defaultAmount int64
}

// ServiceParams lists the dependencies for NewService.
type ServiceParams struct {
	DB     txRunner
	Repo   Repository
	People personRegistry
	Audit  audit.Recorder
	// DefaultMonthlyAmountCents backs house creation when the caller omits
	// an amount. Zero falls through to the hard fallback.
	DefaultMonthlyAmountCents int64
}

// NewService validates and wires a house service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("house repository required")
	}
	if params.People == nil {
		return nil, fmt.Errorf("people registry required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{
		db:            params.DB,
		repo:          params.Repo,
		people:        params.People,
		audit:         params.Audit,
		defaultAmount: params.DefaultMonthlyAmountCents,
	}, nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// resolvedPerson is the outcome of resolving a ResponsibleInput.
type resolvedPerson struct {
	id          uuid.UUID
	reused      bool
	suggestions []people.Suggestion
}

func (s *Service) resolveResponsible(ctx context.Context, input ResponsibleInput) (*resolvedPerson, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.PersonID != nil {
		person, err := s.people.Get(ctx, *input.PersonID)
		if err != nil {
			return nil, err
		}
		return &resolvedPerson{id: person.ID, reused: true}, nil
	}

	// Suggestions are advisory only and only surfaced when no phone was
	// supplied; a phone match is the one thing that dedups automatically.
	var suggestions []people.Suggestion
	if input.Phone == nil {
		matches, err := s.people.Suggest(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		suggestions = matches
	}

	created, err := s.people.Create(ctx, people.CreatePersonInput{Name: *input.Name, Phone: input.Phone})
	if err != nil {
		return nil, err
	}
	return &resolvedPerson{id: created.ID, reused: created.Reused, suggestions: suggestions}, nil
}

// QuickCreate registers a house. Status is derived: active only when street,
// house number, and a resolved responsible are all present.
func (s *Service) QuickCreate(ctx context.Context, input QuickCreateInput) (QuickCreateResult, error) {
	amount := fallbackMonthlyAmountCents
	if s.defaultAmount > 0 {
		amount = s.defaultAmount
	}
	if input.MonthlyAmountCents != nil && *input.MonthlyAmountCents > 0 {
		amount = *input.MonthlyAmountCents
	}

	var resolved *resolvedPerson
	if input.Responsible != nil {
		var err error
		resolved, err = s.resolveResponsible(ctx, *input.Responsible)
		if err != nil {
			return QuickCreateResult{}, err
		}
	}

	street := emptyToNil(input.Street)
	houseNumber := emptyToNil(input.HouseNumber)

	status := enums.HouseStatusPending
	if street != nil && houseNumber != nil && resolved != nil {
		status = enums.HouseStatusActive
	}

	house := &models.House{
		ID:                 uuid.New(),
		Street:             street,
		HouseNumber:        houseNumber,
		Complement:         emptyToNil(input.Complement),
		CEP:                emptyToNil(input.CEP),
		Reference:          emptyToNil(input.Reference),
		Notes:              input.Notes,
		MonthlyAmountCents: amount,
		Status:             status,
	}

	now := time.Now().UTC()
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, house); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist house")
		}
		if resolved != nil {
			if err := s.openResponsibility(ctx, repo, house.ID, resolved.id, now); err != nil {
				return err
			}
		}
		summary := map[string]any{
			"street":               house.Street,
			"house_number":         house.HouseNumber,
			"status":               house.Status,
			"monthly_amount_cents": house.MonthlyAmountCents,
		}
		if resolved != nil {
			summary["responsible_person_id"] = resolved.id
		}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionCreateHouse, "house", house.ID.String(), summary)
	})
	if err != nil {
		return QuickCreateResult{}, err
	}

	result := QuickCreateResult{HouseID: house.ID}
	if resolved != nil {
		result.PersonID = &resolved.id
		result.Reused = &resolved.reused
		result.Suggestions = resolved.suggestions
	}
	return result, nil
}

// openResponsibility closes any open interval and opens a new one inside the
// caller's transaction. The partial unique index backstops the close+insert
// pair: a concurrent assignment surfaces as a unique violation, not as a
// second open row.
func (s *Service) openResponsibility(ctx context.Context, repo Repository, houseID, personID uuid.UUID, now time.Time) error {
	if err := repo.CloseOpenResponsibilities(ctx, houseID, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close open responsibilities")
	}
	resp := &models.Responsibility{
		ID:       uuid.New(),
		HouseID:  houseID,
		PersonID: personID,
		StartAt:  now,
	}
	if err := repo.InsertResponsibility(ctx, resp); err != nil {
		if db.IsUniqueViolation(err, openResponsibilityConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "house responsibility changed concurrently")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert responsibility")
	}
	return nil
}

// AssignResponsible points a house at a new responsible person, closing the
// previous interval in the same transaction.
func (s *Service) AssignResponsible(ctx context.Context, houseID uuid.UUID, input ResponsibleInput) (AssignResult, error) {
	if _, err := s.findByID(ctx, houseID); err != nil {
		return AssignResult{}, err
	}

	resolved, err := s.resolveResponsible(ctx, input)
	if err != nil {
		return AssignResult{}, err
	}

	now := time.Now().UTC()
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.openResponsibility(ctx, repo, houseID, resolved.id, now); err != nil {
			return err
		}
		summary := map[string]any{
			"person_id":     resolved.id,
			"reused_person": resolved.reused,
		}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionSetResponsible, "house", houseID.String(), summary)
	})
	if err != nil {
		return AssignResult{}, err
	}

	return AssignResult{PersonID: resolved.id, Reused: resolved.reused, Suggestions: resolved.suggestions}, nil
}

// Get fetches one house.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.House, error) {
	return s.findByID(ctx, id)
}

// GetDetails returns the house with its current responsible, full interval
// history, and the most recent invoices.
func (s *Service) GetDetails(ctx context.Context, id uuid.UUID) (*HouseDetails, error) {
	house, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.CurrentResponsible(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current responsible")
	}
	history, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load responsibility history")
	}
	invoices, err := s.repo.RecentInvoices(ctx, id, recentInvoiceLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent invoices")
	}

	return &HouseDetails{
		House:              *house,
		CurrentResponsible: current,
		History:            history,
		RecentInvoices:     invoices,
	}, nil
}

// CurrentResponsible returns the person currently accountable for the house,
// nil when the seat is empty.
func (s *Service) CurrentResponsible(ctx context.Context, houseID uuid.UUID) (*models.Person, error) {
	if _, err := s.findByID(ctx, houseID); err != nil {
		return nil, err
	}
	person, err := s.repo.CurrentResponsible(ctx, houseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current responsible")
	}
	return person, nil
}

// History lists the house's responsibility intervals, most recent first.
func (s *Service) History(ctx context.Context, houseID uuid.UUID) ([]HistoryItem, error) {
	if _, err := s.findByID(ctx, houseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.History(ctx, houseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load responsibility history")
	}
	return rows, nil
}

// List pages through houses with their current responsible attached.
func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) (ListResult, error) {
	page = pagination.Normalize(page)
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list houses")
	}
	if items == nil {
		items = []HouseListItem{}
	}
	return ListResult{Items: items, Pagination: pagination.NewMeta(page, total)}, nil
}

// ListPending flags houses still missing the data they need to bill. The
// reasons are computed from the row itself, independent of the status column.
func (s *Service) ListPending(ctx context.Context) ([]PendingHouseItem, error) {
	rows, err := s.repo.ListPendingFlags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending houses")
	}

	items := make([]PendingHouseItem, 0, len(rows))
	for _, row := range rows {
		reasons := []enums.PendingReason{}
		if row.Street == nil || *row.Street == "" {
			reasons = append(reasons, enums.PendingReasonMissingStreet)
		}
		if row.HouseNumber == nil || *row.HouseNumber == "" {
			reasons = append(reasons, enums.PendingReasonMissingHouseNumber)
		}
		if !row.HasResponsible {
			reasons = append(reasons, enums.PendingReasonMissingResponsible)
		}
		if len(reasons) == 0 {
			continue
		}
		items = append(items, PendingHouseItem{
			ID:          row.ID,
			Street:      row.Street,
			HouseNumber: row.HouseNumber,
			Status:      row.Status,
			Reasons:     reasons,
		})
	}
	return items, nil
}

// Update applies a tri-state partial update with a field diff audit. A
// payload that changes nothing still succeeds with an empty diff.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateHouseInput) (*models.House, error) {
	house, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := audit.Changes{}

	applyText := func(field string, dst **string, opt types.Optional[string]) {
		if !opt.IsSet() {
			return
		}
		next := opt.Ptr()
		changes.Track(field, *dst, next)
		*dst = next
	}
	applyText("street", &house.Street, input.Street)
	applyText("house_number", &house.HouseNumber, input.HouseNumber)
	applyText("complement", &house.Complement, input.Complement)
	applyText("cep", &house.CEP, input.CEP)
	applyText("reference", &house.Reference, input.Reference)
	applyText("notes", &house.Notes, input.Notes)

	if input.MonthlyAmountCents.IsSet() {
		amount, ok := input.MonthlyAmountCents.Value()
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "monthly amount cannot be cleared")
		}
		if amount <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "monthly amount must be positive")
		}
		changes.Track("monthly_amount_cents", house.MonthlyAmountCents, amount)
		house.MonthlyAmountCents = amount
	}

	if input.Status.IsSet() {
		raw, ok := input.Status.Value()
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "status cannot be cleared")
		}
		status, err := enums.ParseHouseStatus(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid house status")
		}
		changes.Track("status", house.Status, status)
		house.Status = status
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, house); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist house update")
		}
		summary := map[string]any{"changes": changes}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionUpdateHouse, "house", house.ID.String(), summary)
	})
	if err != nil {
		return nil, err
	}
	return house, nil
}

// Delete removes the house and cascades through payments, invoices, and
// responsibilities. The audit entry snapshots the row before it disappears.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	house, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	snapshot := map[string]any{
		"street":               house.Street,
		"house_number":         house.HouseNumber,
		"status":               house.Status,
		"monthly_amount_cents": house.MonthlyAmountCents,
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteCascade(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete house")
		}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionDeleteHouse, "house", id.String(), snapshot)
	})
}

func (s *Service) findByID(ctx context.Context, id uuid.UUID) (*models.House, error) {
	house, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "house not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load house")
	}
	return house, nil
}
