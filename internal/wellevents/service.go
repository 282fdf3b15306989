package wellevents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
)

// Service logs incidents on the shared water well. These are operational
// notes, not billing mutations, so they carry no audit entry.
type Service struct {
	repo Repository
}

// NewService wires a well-event service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("well event repository required")
	}
	return &Service{repo: repo}, nil
}

// CreateInput carries a new event. Type is free text.
type CreateInput struct {
	Type       string     `json:"type" validate:"required,min=1"`
	HappenedAt *time.Time `json:"happened_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// ListResult is one page of events, most recent first.
type ListResult struct {
	Items      []models.WellEvent `json:"items"`
	Pagination pagination.Meta    `json:"pagination"`
}

// Create records a well event. HappenedAt defaults to now.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.WellEvent, error) {
	eventType := strings.TrimSpace(input.Type)
	if eventType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event type is required")
	}

	happenedAt := time.Now().UTC()
	if input.HappenedAt != nil {
		happenedAt = *input.HappenedAt
	}

	event := &models.WellEvent{
		ID:         uuid.New(),
		Type:       eventType,
		HappenedAt: happenedAt,
		Notes:      input.Notes,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist well event")
	}
	return event, nil
}

// List pages through events, most recent first.
func (s *Service) List(ctx context.Context, page pagination.Params) (ListResult, error) {
	page = pagination.Normalize(page)
	events, total, err := s.repo.List(ctx, page)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list well events")
	}
	if events == nil {
		events = []models.WellEvent{}
	}
	return ListResult{Items: events, Pagination: pagination.NewMeta(page, total)}, nil
}
