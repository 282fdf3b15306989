package people

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/pkg/db/models"
)

// phoneDigitsExpr strips the common formatting characters from a stored phone
// column so lookups compare digits against digits. Runs identically on
// Postgres and the sqlite test harness.
const phoneDigitsExpr = `REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(%s, ' ', ''), '-', ''), '(', ''), ')', ''), '+', '')`

// Repository is the persistence boundary for people.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
	// FindByNormalizedPhone matches digits against both phone and mobile.
	// Returns (nil, nil) when nothing matches.
	FindByNormalizedPhone(ctx context.Context, digits string) (*models.Person, error)
	SuggestByName(ctx context.Context, name string, limit int) ([]models.Person, error)
	List(ctx context.Context, search string) ([]PersonListItem, error)
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

func (r *gormRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *gormRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).First(&person, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *gormRepository) FindByNormalizedPhone(ctx context.Context, digits string) (*models.Person, error) {
	var person models.Person
	cond := fmt.Sprintf("%s = ? OR %s = ?",
		fmt.Sprintf(phoneDigitsExpr, "phone"),
		fmt.Sprintf(phoneDigitsExpr, "mobile"),
	)
	err := r.db.WithContext(ctx).
		Where(cond, digits, digits).
		First(&person).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &person, nil
}

func (r *gormRepository) SuggestByName(ctx context.Context, name string, limit int) ([]models.Person, error) {
	var rows []models.Person
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Order("name").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) List(ctx context.Context, search string) ([]PersonListItem, error) {
	query := `
		SELECT p.id, p.name, p.phone, p.mobile, p.cpf, p.email, p.rg, p.notes,
		       COUNT(DISTINCT hr.house_id) AS active_houses
		FROM people p
		LEFT JOIN house_responsibilities hr
		  ON hr.person_id = p.id AND hr.end_at IS NULL`
	args := []any{}
	if search != "" {
		like := "%" + search + "%"
		query += `
		WHERE LOWER(p.name) LIKE LOWER(?)
		   OR p.phone LIKE ? OR p.mobile LIKE ?
		   OR p.cpf LIKE ? OR p.email LIKE ? OR p.rg LIKE ?`
		args = append(args, like, like, like, like, like, like)
	}
	query += `
		GROUP BY p.id, p.name, p.phone, p.mobile, p.cpf, p.email, p.rg, p.notes
		ORDER BY p.name`

	var rows []PersonListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
