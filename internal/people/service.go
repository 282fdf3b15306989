package people

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/pkg/db"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/types"
)

const suggestionLimit = 5

// txRunner abstracts db.Client.WithTx for testability.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the people registry: creation with phone dedup, tri-state
// updates, and the lookups the house flows lean on.
type Service struct {
	db    txRunner
	repo  Repository
	audit audit.Recorder
}

// ServiceParams lists the dependencies for NewService.
type ServiceParams struct {
	DB    txRunner
	Repo  Repository
	Audit audit.Recorder
}

// NewService validates and wires a people service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("people repository required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{db: params.DB, repo: params.Repo, audit: params.Audit}, nil
}

// Create registers a person, reusing an existing row when a submitted phone
// already matches someone. Reuse performs no write and records no audit
// entry; the caller learns about it through the reused flag.
func (s *Service) Create(ctx context.Context, input CreatePersonInput) (CreatePersonResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CreatePersonResult{}, pkgerrors.New(pkgerrors.CodeValidation, "person name is required")
	}

	phone := NormalizePhone(input.Phone)
	mobile := NormalizePhone(input.Mobile)

	for _, digits := range []*string{phone, mobile} {
		if digits == nil {
			continue
		}
		existing, err := s.repo.FindByNormalizedPhone(ctx, *digits)
		if err != nil {
			return CreatePersonResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup person by phone")
		}
		if existing != nil {
			return CreatePersonResult{ID: existing.ID, Reused: true}, nil
		}
	}

	person := &models.Person{
		ID:     uuid.New(),
		Name:   name,
		Phone:  phone,
		Mobile: mobile,
		CPF:    input.CPF,
		Email:  input.Email,
		RG:     input.RG,
		Notes:  input.Notes,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, person); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist person")
		}
		summary := map[string]any{"name": person.Name, "phone": person.Phone}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionCreatePerson, "person", person.ID.String(), summary)
	})
	if err != nil {
		return CreatePersonResult{}, err
	}

	return CreatePersonResult{ID: person.ID, Reused: false}, nil
}

// Update applies a tri-state partial update. Name can be replaced but never
// cleared. An audit entry is written even when the diff is empty.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdatePersonInput) (*models.Person, error) {
	person, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := audit.Changes{}

	if input.Name.IsSet() {
		value, ok := input.Name.Value()
		name := strings.TrimSpace(value)
		if !ok || name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "person name cannot be cleared")
		}
		changes.Track("name", person.Name, name)
		person.Name = name
	}

	applyPhone := func(field string, dst **string, opt types.Optional[string]) {
		if !opt.IsSet() {
			return
		}
		next := NormalizePhone(opt.Ptr())
		changes.Track(field, *dst, next)
		*dst = next
	}
	applyPhone("phone", &person.Phone, input.Phone)
	applyPhone("mobile", &person.Mobile, input.Mobile)

	applyText := func(field string, dst **string, opt types.Optional[string]) {
		if !opt.IsSet() {
			return
		}
		next := opt.Ptr()
		changes.Track(field, *dst, next)
		*dst = next
	}
	applyText("cpf", &person.CPF, input.CPF)
	applyText("email", &person.Email, input.Email)
	applyText("rg", &person.RG, input.RG)
	applyText("notes", &person.Notes, input.Notes)

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, person); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist person update")
		}
		summary := map[string]any{"changes": changes}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionUpdatePerson, "person", person.ID.String(), summary)
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// Get fetches a person by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	return s.findByID(ctx, id)
}

// FindByPhone resolves a person by any phone rendering of the same digits.
func (s *Service) FindByPhone(ctx context.Context, raw string) (*models.Person, error) {
	digits := NormalizePhone(&raw)
	if digits == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must contain digits")
	}
	person, err := s.repo.FindByNormalizedPhone(ctx, *digits)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup person by phone")
	}
	if person == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "person not found")
	}
	return person, nil
}

// Suggest returns up to five advisory name matches, ordered by name.
func (s *Service) Suggest(ctx context.Context, name string) ([]Suggestion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	rows, err := s.repo.SuggestByName(ctx, name, suggestionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suggest people by name")
	}
	suggestions := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, Suggestion{ID: row.ID, Name: row.Name, Phone: row.Phone})
	}
	return suggestions, nil
}

// List returns the registry, each row carrying the count of houses the person
// currently answers for. Search matches name and documents case-insensitively.
func (s *Service) List(ctx context.Context, search string) ([]PersonListItem, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list people")
	}
	return rows, nil
}

func (s *Service) findByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "person not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load person")
	}
	return person, nil
}
