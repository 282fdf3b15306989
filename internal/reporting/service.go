package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
)

// Service exposes the read-only aggregation views. Nothing here mutates
// state, so there is no transaction or audit wiring.
type Service struct {
	repo Repository
}

// NewService wires a reporting service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	return &Service{repo: repo}, nil
}

// Dashboard summarizes one billing period.
type Dashboard struct {
	ReceivedCents   int64 `json:"received_cents"`
	OpenCents       int64 `json:"open_cents"`
	HousesLateCount int64 `json:"houses_late_count"`
}

// LatePerson identifies the current responsible on a late house.
type LatePerson struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone"`
}

// LateInvoice is one overdue open invoice.
type LateInvoice struct {
	ID          uuid.UUID  `json:"id"`
	Year        int        `json:"year"`
	Month       int        `json:"month"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     *time.Time `json:"due_date"`
}

// LateHouse groups a house's overdue invoices with its worst delay.
type LateHouse struct {
	HouseID     uuid.UUID     `json:"house_id"`
	Street      *string       `json:"street"`
	HouseNumber *string       `json:"house_number"`
	Responsible *LatePerson   `json:"responsible"`
	MonthsLate  int           `json:"months_late"`
	Invoices    []LateInvoice `json:"invoices"`
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "year must be positive")
	}
	return nil
}

func periodKey(year, month int) int { return year*12 + month }

// Dashboard reports received and open sums for (year, month) plus the count
// of houses carrying open invoices from strictly earlier periods.
func (s *Service) Dashboard(ctx context.Context, year, month int) (Dashboard, error) {
	if err := validatePeriod(year, month); err != nil {
		return Dashboard{}, err
	}

	received, err := s.repo.ReceivedCents(ctx, year, month)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum received payments")
	}
	open, err := s.repo.OpenCents(ctx, year, month)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum open invoices")
	}
	late, err := s.repo.LateHouseCount(ctx, periodKey(year, month))
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count late houses")
	}

	return Dashboard{ReceivedCents: received, OpenCents: open, HousesLateCount: late}, nil
}

// ListLate groups open invoices from periods strictly before the as-of
// period by house. Houses with nothing overdue are absent, never zero-filled.
func (s *Service) ListLate(ctx context.Context, asOfYear, asOfMonth int) ([]LateHouse, error) {
	if err := validatePeriod(asOfYear, asOfMonth); err != nil {
		return nil, err
	}
	asOf := periodKey(asOfYear, asOfMonth)

	rows, err := s.repo.LateRows(ctx, asOf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list late invoices")
	}

	// Rows arrive ordered by house, so grouping is a single pass.
	items := []LateHouse{}
	for _, row := range rows {
		monthsLate := asOf - periodKey(row.Year, row.Month)
		if monthsLate < 0 {
			monthsLate = 0
		}
		invoice := LateInvoice{
			ID:          row.InvoiceID,
			Year:        row.Year,
			Month:       row.Month,
			AmountCents: row.AmountCents,
			DueDate:     row.DueDate,
		}

		if n := len(items); n > 0 && items[n-1].HouseID == row.HouseID {
			group := &items[n-1]
			group.Invoices = append(group.Invoices, invoice)
			if monthsLate > group.MonthsLate {
				group.MonthsLate = monthsLate
			}
			continue
		}

		group := LateHouse{
			HouseID:     row.HouseID,
			Street:      row.Street,
			HouseNumber: row.HouseNumber,
			MonthsLate:  monthsLate,
			Invoices:    []LateInvoice{invoice},
		}
		if row.ResponsibleID != nil && row.ResponsibleName != nil {
			group.Responsible = &LatePerson{
				ID:    *row.ResponsibleID,
				Name:  *row.ResponsibleName,
				Phone: row.ResponsiblePhone,
			}
		}
		items = append(items, group)
	}
	return items, nil
}
