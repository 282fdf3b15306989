package houses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
)

// Repository is the persistence boundary for houses and their
// responsibility intervals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, house *models.House) error
	Update(ctx context.Context, house *models.House) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.House, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]HouseListItem, int64, error)
	ListPendingFlags(ctx context.Context) ([]PendingFlagRow, error)
	// DeleteCascade removes the house and everything hanging off it, child
	// tables first so foreign keys never dangle mid-delete.
	DeleteCascade(ctx context.Context, houseID uuid.UUID) error

	InsertResponsibility(ctx context.Context, resp *models.Responsibility) error
	CloseOpenResponsibilities(ctx context.Context, houseID uuid.UUID, endAt time.Time) error
	// CurrentResponsible returns (nil, nil) when the house has no open
	// interval. Ordered by start_at as a defensive tiebreak.
	CurrentResponsible(ctx context.Context, houseID uuid.UUID) (*models.Person, error)
	History(ctx context.Context, houseID uuid.UUID) ([]HistoryItem, error)
	RecentInvoices(ctx context.Context, houseID uuid.UUID, limit int) ([]models.Invoice, error)
}

// PendingFlagRow is the raw projection the pending report is computed from.
type PendingFlagRow struct {
	ID             uuid.UUID         `gorm:"column:id"`
	Street         *string           `gorm:"column:street"`
	HouseNumber    *string           `gorm:"column:house_number"`
	Status         enums.HouseStatus `gorm:"column:status"`
	HasResponsible bool              `gorm:"column:has_responsible"`
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

func (r *gormRepository) Create(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *gormRepository) Update(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Save(house).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.House, error) {
	var house models.House
	if err := r.db.WithContext(ctx).First(&house, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &house, nil
}

const listJoin = `
	FROM houses h
	LEFT JOIN house_responsibilities hr ON hr.house_id = h.id AND hr.end_at IS NULL
	LEFT JOIN people p ON p.id = hr.person_id`

func listConditions(filter ListFilter) (string, []any) {
	where := ""
	args := []any{}
	if filter.Status != nil {
		where += " WHERE h.status = ?"
		args = append(args, filter.Status.String())
	}
	if filter.Search != "" {
		if where == "" {
			where += " WHERE"
		} else {
			where += " AND"
		}
		like := "%" + filter.Search + "%"
		where += ` (LOWER(h.street) LIKE LOWER(?)
			OR h.house_number LIKE ?
			OR LOWER(p.name) LIKE LOWER(?)
			OR p.phone LIKE ?)`
		args = append(args, like, like, like, like)
	}
	return where, args
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]HouseListItem, int64, error) {
	where, args := listConditions(filter)

	var total int64
	countQuery := "SELECT COUNT(DISTINCT h.id)" + listJoin + where
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	query := `
	SELECT h.id, h.street, h.house_number, h.complement, h.cep, h.reference,
	       h.monthly_amount_cents, h.status, h.notes, h.created_at,
	       p.id AS responsible_id, p.name AS responsible_name, p.phone AS responsible_phone` +
		listJoin + where + `
	ORDER BY h.created_at DESC
	LIMIT ? OFFSET ?`
	args = append(args, page.PageSize, page.Offset())

	var items []HouseListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *gormRepository) ListPendingFlags(ctx context.Context) ([]PendingFlagRow, error) {
	query := `
	SELECT h.id, h.street, h.house_number, h.status,
	       CASE WHEN hr.id IS NULL THEN 0 ELSE 1 END AS has_responsible
	FROM houses h
	LEFT JOIN house_responsibilities hr ON hr.house_id = h.id AND hr.end_at IS NULL
	WHERE h.street IS NULL OR h.street = ''
	   OR h.house_number IS NULL OR h.house_number = ''
	   OR hr.id IS NULL
	ORDER BY h.created_at DESC`

	var rows []PendingFlagRow
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) DeleteCascade(ctx context.Context, houseID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	steps := []string{
		"DELETE FROM payments WHERE house_id = ?",
		"DELETE FROM invoices WHERE house_id = ?",
		"DELETE FROM house_responsibilities WHERE house_id = ?",
		"DELETE FROM houses WHERE id = ?",
	}
	for _, stmt := range steps {
		if err := db.Exec(stmt, houseID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *gormRepository) InsertResponsibility(ctx context.Context, resp *models.Responsibility) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *gormRepository) CloseOpenResponsibilities(ctx context.Context, houseID uuid.UUID, endAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Responsibility{}).
		Where("house_id = ? AND end_at IS NULL", houseID).
		Update("end_at", endAt).Error
}

func (r *gormRepository) CurrentResponsible(ctx context.Context, houseID uuid.UUID) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.*
		FROM house_responsibilities hr
		JOIN people p ON p.id = hr.person_id
		WHERE hr.house_id = ? AND hr.end_at IS NULL
		ORDER BY hr.start_at DESC
		LIMIT 1`, houseID).Scan(&person).Error
	if err != nil {
		return nil, err
	}
	if person.ID == uuid.Nil {
		return nil, nil
	}
	return &person, nil
}

func (r *gormRepository) History(ctx context.Context, houseID uuid.UUID) ([]HistoryItem, error) {
	var rows []HistoryItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT hr.id, hr.person_id, p.name AS person_name, p.phone AS person_phone,
		       hr.start_at, hr.end_at
		FROM house_responsibilities hr
		JOIN people p ON p.id = hr.person_id
		WHERE hr.house_id = ?
		ORDER BY hr.start_at DESC`, houseID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) RecentInvoices(ctx context.Context, houseID uuid.UUID, limit int) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("year DESC, month DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
