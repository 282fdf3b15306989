package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the read-only query surface behind the dashboard and the
// delinquency report.
type Repository interface {
	ReceivedCents(ctx context.Context, year, month int) (int64, error)
	OpenCents(ctx context.Context, year, month int) (int64, error)
	LateHouseCount(ctx context.Context, periodKey int) (int64, error)
	LateRows(ctx context.Context, periodKey int) ([]LateRow, error)
}

// LateRow is one open invoice joined with its house and current responsible.
type LateRow struct {
	HouseID          uuid.UUID  `gorm:"column:house_id"`
	Street           *string    `gorm:"column:street"`
	HouseNumber      *string    `gorm:"column:house_number"`
	ResponsibleID    *uuid.UUID `gorm:"column:responsible_id"`
	ResponsibleName  *string    `gorm:"column:responsible_name"`
	ResponsiblePhone *string    `gorm:"column:responsible_phone"`
	InvoiceID        uuid.UUID  `gorm:"column:invoice_id"`
	Year             int        `gorm:"column:year"`
	Month            int        `gorm:"column:month"`
	AmountCents      int64      `gorm:"column:amount_cents"`
	DueDate          *time.Time `gorm:"column:due_date"`
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ReceivedCents(ctx context.Context, year, month int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(p.amount_cents), 0)
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.year = ? AND i.month = ?`, year, month).Scan(&total).Error
	return total, err
}

func (r *gormRepository) OpenCents(ctx context.Context, year, month int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM invoices
		WHERE status = 'open' AND year = ? AND month = ?`, year, month).Scan(&total).Error
	return total, err
}

func (r *gormRepository) LateHouseCount(ctx context.Context, periodKey int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT house_id)
		FROM invoices
		WHERE status = 'open' AND (year * 12 + month) < ?`, periodKey).Scan(&count).Error
	return count, err
}

func (r *gormRepository) LateRows(ctx context.Context, periodKey int) ([]LateRow, error) {
	var rows []LateRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT h.id AS house_id, h.street, h.house_number,
		       p.id AS responsible_id, p.name AS responsible_name, p.phone AS responsible_phone,
		       i.id AS invoice_id, i.year, i.month, i.amount_cents, i.due_date
		FROM invoices i
		JOIN houses h ON h.id = i.house_id
		LEFT JOIN house_responsibilities hr ON hr.house_id = h.id AND hr.end_at IS NULL
		LEFT JOIN people p ON p.id = hr.person_id
		WHERE i.status = 'open' AND (i.year * 12 + i.month) < ?
		ORDER BY h.id, i.year DESC, i.month DESC`, periodKey).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
