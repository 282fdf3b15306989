package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
)

// Repository is the persistence boundary for invoices and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListEligibleHouses(ctx context.Context, statuses []enums.HouseStatus) ([]models.House, error)
	CountForPeriod(ctx context.Context, year, month int) (int64, error)
	// InsertIfAbsent writes the batch with ON CONFLICT DO NOTHING keyed on
	// (house_id, year, month). This is the idempotency mechanism; the
	// before/after counts are only reporting.
	InsertIfAbsent(ctx context.Context, batch []models.Invoice) error

	// InsertPaymentCopyingAmount inserts the payment with amount_cents read
	// from the invoice row in the same statement, so the copy cannot observe
	// a half-updated invoice.
	InsertPaymentCopyingAmount(ctx context.Context, payment *models.Payment) error
	// MarkPaid flips open→paid conditionally and reports how many rows the
	// update touched. Zero means the invoice was no longer open.
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, paidAt time.Time) (int64, error)
	FindPaymentByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.Payment, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormRepository) ListEligibleHouses(ctx context.Context, statuses []enums.HouseStatus) ([]models.House, error) {
	raw := make([]string, 0, len(statuses))
	for _, status := range statuses {
		raw = append(raw, status.String())
	}
	var houses []models.House
	err := r.db.WithContext(ctx).
		Where("status IN ?", raw).
		Find(&houses).Error
	if err != nil {
		return nil, err
	}
	return houses, nil
}

func (r *gormRepository) CountForPeriod(ctx context.Context, year, month int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) InsertIfAbsent(ctx context.Context, batch []models.Invoice) error {
	if len(batch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "house_id"}, {Name: "year"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(&batch).Error
}

func (r *gormRepository) InsertPaymentCopyingAmount(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO payments (id, house_id, invoice_id, amount_cents, method, paid_at, notes, created_at)
		SELECT ?, i.house_id, i.id, i.amount_cents, ?, ?, ?, ?
		FROM invoices i
		WHERE i.id = ?`,
		payment.ID,
		payment.Method.String(),
		payment.PaidAt,
		payment.Notes,
		payment.CreatedAt,
		payment.InvoiceID,
	).Error
}

func (r *gormRepository) MarkPaid(ctx context.Context, invoiceID uuid.UUID, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND status = ?", invoiceID, enums.InvoiceStatusOpen.String()).
		Updates(map[string]any{
			"status":  enums.InvoiceStatusPaid.String(),
			"paid_at": paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *gormRepository) FindPaymentByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
