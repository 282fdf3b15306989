package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Recorder appends one audit entry per mutation. Callers bind it to the
// transaction carrying the primary writes so the entry commits with them.
type Recorder interface {
	WithTx(tx *gorm.DB) Recorder
	Record(ctx context.Context, action enums.AuditAction, entity string, entityID string, summary any) error
}

// Service exposes the audit surface: recording inside transactions and the
// read-only listing.
type Service interface {
	Recorder
	List(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type service struct {
	repo Repository
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Recorder {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Record(ctx context.Context, action enums.AuditAction, entity string, entityID string, summary any) error {
	if entity == "" || entityID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit entry requires entity and entity id")
	}
	if summary == nil {
		summary = map[string]any{}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal audit summary: %w", err)
	}

	entry := &models.AuditEntry{
		ID:       uuid.New(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Summary:  payload,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist audit entry")
	}
	return nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return entries, nil
}
