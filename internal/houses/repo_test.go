package houses

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/casaflow/casaflow-backend/pkg/db"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	"github.com/casaflow/casaflow-backend/pkg/pagination"
)

const houseSchema = `
CREATE TABLE houses (
	id TEXT PRIMARY KEY,
	street TEXT,
	house_number TEXT,
	complement TEXT,
	cep TEXT,
	reference TEXT,
	monthly_amount_cents INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE people (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT,
	mobile TEXT,
	cpf TEXT,
	email TEXT,
	rg TEXT,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE house_responsibilities (
	id TEXT PRIMARY KEY,
	house_id TEXT NOT NULL,
	person_id TEXT NOT NULL,
	start_at DATETIME NOT NULL,
	end_at DATETIME,
	reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX ux_house_responsibilities_open
	ON house_responsibilities (house_id) WHERE end_at IS NULL;
CREATE TABLE invoices (
	id TEXT PRIMARY KEY,
	house_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	amount_cents INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	due_date DATETIME,
	paid_at DATETIME,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE payments (
	id TEXT PRIMARY KEY,
	house_id TEXT NOT NULL,
	invoice_id TEXT NOT NULL,
	amount_cents INTEGER NOT NULL,
	method TEXT NOT NULL,
	paid_at DATETIME NOT NULL,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range splitStatements(houseSchema) {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

// sqlite's gorm driver executes one statement per Exec call.
func splitStatements(schema string) []string {
	var stmts []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func seedHouse(t *testing.T, conn *gorm.DB, street *string, status enums.HouseStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := conn.Exec(
		"INSERT INTO houses (id, street, house_number, monthly_amount_cents, status) VALUES (?, ?, '10', 9000, ?)",
		id.String(), street, status.String(),
	).Error
	require.NoError(t, err)
	return id
}

func seedPersonRow(t *testing.T, conn *gorm.DB, name string, phone *string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(
		"INSERT INTO people (id, name, phone) VALUES (?, ?, ?)", id.String(), name, phone,
	).Error)
	return id
}

func TestListJoinsCurrentResponsible(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	houseID := seedHouse(t, conn, str("Rua das Flores"), enums.HouseStatusActive)
	seedHouse(t, conn, str("Rua B"), enums.HouseStatusPending)
	personID := seedPersonRow(t, conn, "Ana", str("11988887777"))

	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: personID, StartAt: time.Now().UTC(),
	}))

	items, total, err := repo.List(ctx, ListFilter{}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	var withResp *HouseListItem
	for i := range items {
		if items[i].ID == houseID {
			withResp = &items[i]
		}
	}
	require.NotNil(t, withResp)
	require.NotNil(t, withResp.ResponsibleName)
	assert.Equal(t, "Ana", *withResp.ResponsibleName)
}

func TestListSearchMatchesResponsibleName(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	houseID := seedHouse(t, conn, str("Rua das Flores"), enums.HouseStatusActive)
	seedHouse(t, conn, str("Avenida Central"), enums.HouseStatusActive)
	personID := seedPersonRow(t, conn, "Ana Souza", nil)
	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: personID, StartAt: time.Now().UTC(),
	}))

	items, total, err := repo.List(ctx, ListFilter{Search: "souza"}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, houseID, items[0].ID)
}

func TestListStatusFilter(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	seedHouse(t, conn, str("Rua B"), enums.HouseStatusPending)

	active := enums.HouseStatusActive
	items, total, err := repo.List(context.Background(), ListFilter{Status: &active}, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, enums.HouseStatusActive, items[0].Status)
}

func TestOpenResponsibilityIndexRejectsSecondOpenRow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	houseID := seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	first := seedPersonRow(t, conn, "Ana", nil)
	second := seedPersonRow(t, conn, "Bruno", nil)

	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: first, StartAt: time.Now().UTC(),
	}))

	err := repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: second, StartAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, dbpkg.IsUniqueViolation(err, "ux_house_responsibilities_open"))
}

func TestCloseThenInsertKeepsHistory(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	houseID := seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	first := seedPersonRow(t, conn, "Ana", nil)
	second := seedPersonRow(t, conn, "Bruno", nil)

	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(30 * 24 * time.Hour)

	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: first, StartAt: t0,
	}))
	require.NoError(t, repo.CloseOpenResponsibilities(ctx, houseID, t1))
	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: second, StartAt: t1,
	}))

	current, err := repo.CurrentResponsible(ctx, houseID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Bruno", current.Name)

	history, err := repo.History(ctx, houseID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Bruno", history[0].PersonName)
	assert.Nil(t, history[0].EndAt)
	assert.Equal(t, "Ana", history[1].PersonName)
	require.NotNil(t, history[1].EndAt)
	assert.Equal(t, history[0].StartAt.Unix(), history[1].EndAt.Unix(), "old interval closes where the new one starts")
}

func TestDeleteCascadeRemovesChildren(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	houseID := seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	personID := seedPersonRow(t, conn, "Ana", nil)
	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: houseID, PersonID: personID, StartAt: time.Now().UTC(),
	}))
	invoiceID := uuid.New()
	require.NoError(t, conn.Exec(
		"INSERT INTO invoices (id, house_id, year, month, amount_cents) VALUES (?, ?, 2024, 1, 9000)",
		invoiceID.String(), houseID.String(),
	).Error)
	require.NoError(t, conn.Exec(
		"INSERT INTO payments (id, house_id, invoice_id, amount_cents, method, paid_at) VALUES (?, ?, ?, 9000, 'pix', CURRENT_TIMESTAMP)",
		uuid.New().String(), houseID.String(), invoiceID.String(),
	).Error)

	require.NoError(t, repo.DeleteCascade(ctx, houseID))

	for _, table := range []string{"payments", "invoices", "house_responsibilities", "houses"} {
		var count int64
		col := "house_id"
		if table == "houses" {
			col = "id"
		}
		require.NoError(t, conn.Raw(
			fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, col), houseID.String(),
		).Scan(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestListPendingFlags(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	noStreet := seedHouse(t, conn, nil, enums.HouseStatusPending)
	covered := seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	personID := seedPersonRow(t, conn, "Ana", nil)
	require.NoError(t, repo.InsertResponsibility(ctx, &models.Responsibility{
		ID: uuid.New(), HouseID: covered, PersonID: personID, StartAt: time.Now().UTC(),
	}))

	rows, err := repo.ListPendingFlags(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, noStreet, rows[0].ID)
	assert.False(t, rows[0].HasResponsible)
}

func TestRecentInvoicesOrdersByPeriod(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	houseID := seedHouse(t, conn, str("Rua A"), enums.HouseStatusActive)
	for _, period := range [][2]int{{2023, 12}, {2024, 2}, {2024, 1}} {
		require.NoError(t, conn.Exec(
			"INSERT INTO invoices (id, house_id, year, month, amount_cents) VALUES (?, ?, ?, ?, 9000)",
			uuid.New().String(), houseID.String(), period[0], period[1],
		).Error)
	}

	rows, err := repo.RecentInvoices(context.Background(), houseID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Month)
	assert.Equal(t, 1, rows[1].Month)
}
