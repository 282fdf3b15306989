package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/pkg/db"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
)

// ConflictAlreadyPaid is the sub-code carried in conflict details when a
// caller retries payment on an invoice that already settled.
const ConflictAlreadyPaid = "ALREADY_PAID"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the invoice ledger: idempotent monthly generation and the
// single open→paid transition.
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

// NewService validates and wires an invoice service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{db: params.DB, repo: params.Repo, audit: params.Audit}, nil
}

// GenerateResult reports how a generation run went. Created comes from the
// before/after count delta; the insert itself is what guarantees no
// duplicates.
type GenerateResult struct {
	Created         int64 `json:"created"`
	SkippedExisting int64 `json:"skipped_existing"`
}

// Generate creates one open invoice per eligible house for (year, month),
// snapshotting each house's current monthly amount. Re-running for the same
// period never duplicates or alters existing invoices.
func (s *Service) Generate(ctx context.Context, year, month int, includePending bool) (GenerateResult, error) {
	if month < 1 || month > 12 {
		return GenerateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return GenerateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "year must be positive")
	}

	statuses := []enums.HouseStatus{enums.HouseStatusActive}
	if includePending {
		statuses = append(statuses, enums.HouseStatusPending)
	}

	houses, err := s.repo.ListEligibleHouses(ctx, statuses)
	if err != nil {
		return GenerateResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list eligible houses")
	}
	eligible := int64(len(houses))

	var result GenerateResult
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		before, err := repo.CountForPeriod(ctx, year, month)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count invoices before insert")
		}

		batch := make([]models.Invoice, 0, len(houses))
		for _, house := range houses {
			batch = append(batch, models.Invoice{
				ID:          uuid.New(),
				HouseID:     house.ID,
				Year:        year,
				Month:       month,
				AmountCents: house.MonthlyAmountCents,
				Status:      enums.InvoiceStatusOpen,
			})
		}
		if err := repo.InsertIfAbsent(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invoices")
		}

		after, err := repo.CountForPeriod(ctx, year, month)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count invoices after insert")
		}

		result.Created = after - before
		if result.Created < 0 {
			result.Created = 0
		}
		result.SkippedExisting = eligible - result.Created
		if result.SkippedExisting < 0 {
			result.SkippedExisting = 0
		}

		summary := map[string]any{
			"year":             year,
			"month":            month,
			"include_pending":  includePending,
			"created":          result.Created,
			"skipped_existing": result.SkippedExisting,
		}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionGenerateInvoices,
			"invoices", fmt.Sprintf("%04d-%02d", year, month), summary)
	})
	if err != nil {
		return GenerateResult{}, err
	}
	return result, nil
}

// PayResult reports a settled invoice and the payment recorded for it.
type PayResult struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	PaymentID uuid.UUID `json:"payment_id"`
}

// Pay settles an open invoice. The payment insert and the conditional
// status flip run as one unit: if a concurrent call wins the transition, the
// whole transaction rolls back and the caller sees Conflict, never an orphan
// payment.
func (s *Service) Pay(ctx context.Context, invoiceID uuid.UUID, method enums.PaymentMethod, paidAt *time.Time, notes *string) (PayResult, error) {
	if !method.IsValid() {
		return PayResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return PayResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return PayResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}

	switch invoice.Status {
	case enums.InvoiceStatusOpen:
	case enums.InvoiceStatusPaid:
		return PayResult{}, pkgerrors.New(pkgerrors.CodeConflict, "invoice already paid").
			WithDetails(map[string]string{"code": ConflictAlreadyPaid})
	default:
		return PayResult{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("invoice is %s, only open invoices can be paid", invoice.Status))
	}

	when := time.Now().UTC()
	if paidAt != nil {
		when = *paidAt
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		HouseID:   invoice.HouseID,
		InvoiceID: invoice.ID,
		Method:    method,
		PaidAt:    when,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.InsertPaymentCopyingAmount(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment")
		}

		rows, err := repo.MarkPaid(ctx, invoice.ID, when)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark invoice paid")
		}
		if rows == 0 {
			// Lost the race: someone else flipped the status between our
			// read and this write. Rolling back also discards the payment.
			return pkgerrors.New(pkgerrors.CodeConflict, "invoice was paid concurrently").
				WithDetails(map[string]string{"code": ConflictAlreadyPaid})
		}

		summary := map[string]any{
			"payment_id": payment.ID,
			"method":     method,
			"paid_at":    when,
		}
		return s.audit.WithTx(tx).Record(ctx, enums.AuditActionPayInvoice,
			"invoice", invoice.ID.String(), summary)
	})
	if err != nil {
		return PayResult{}, err
	}

	return PayResult{InvoiceID: invoice.ID, PaymentID: payment.ID}, nil
}

// Get fetches one invoice.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}
