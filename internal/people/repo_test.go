package people

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const peopleSchema = `
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
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(peopleSchema).Error)
	return db
}

func seedPerson(t *testing.T, db *gorm.DB, name string, phone, mobile *string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(
		"INSERT INTO people (id, name, phone, mobile) VALUES (?, ?, ?, ?)",
		id.String(), name, phone, mobile,
	).Error
	require.NoError(t, err)
	return id
}

func TestFindByNormalizedPhoneMatchesFormattedColumns(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// Stored with formatting on purpose: lookup must normalize both sides.
	id := seedPerson(t, db, "Ana", str("(11) 98888-7777"), nil)

	found, err := repo.FindByNormalizedPhone(ctx, "11988887777")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id.String(), found.ID.String())

	missing, err := repo.FindByNormalizedPhone(ctx, "00000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByNormalizedPhoneChecksMobile(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	id := seedPerson(t, db, "Bruno", nil, str("+55 21 97777-6666"))

	found, err := repo.FindByNormalizedPhone(context.Background(), "5521977776666")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id.String(), found.ID.String())
}

func TestSuggestByNameOrdersAndLimits(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	seedPerson(t, db, "Carla Silva", nil, nil)
	seedPerson(t, db, "Ana Silva", nil, nil)
	seedPerson(t, db, "Bruno Silva", nil, nil)
	seedPerson(t, db, "Pedro Costa", nil, nil)

	rows, err := repo.SuggestByName(context.Background(), "silva", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Silva", rows[0].Name)
	assert.Equal(t, "Bruno Silva", rows[1].Name)
}

func TestListCountsOnlyOpenResponsibilities(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	ana := seedPerson(t, db, "Ana", str("11988887777"), nil)
	bruno := seedPerson(t, db, "Bruno", nil, nil)

	insertResp := func(personID uuid.UUID, open bool) {
		endAt := any("2024-02-01 00:00:00")
		if open {
			endAt = nil
		}
		err := db.Exec(
			"INSERT INTO house_responsibilities (id, house_id, person_id, start_at, end_at) VALUES (?, ?, ?, '2024-01-01 00:00:00', ?)",
			uuid.New().String(), uuid.New().String(), personID.String(), endAt,
		).Error
		require.NoError(t, err)
	}
	insertResp(ana, true)
	insertResp(ana, true)
	insertResp(ana, false)
	insertResp(bruno, false)

	rows, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]PersonListItem{}
	for _, row := range rows {
		byName[row.Name] = row
	}
	assert.Equal(t, int64(2), byName["Ana"].ActiveHouses)
	assert.Equal(t, int64(0), byName["Bruno"].ActiveHouses)
}

func TestListSearchesAcrossFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	seedPerson(t, db, "Ana Souza", str("11988887777"), nil)
	seedPerson(t, db, "Bruno Lima", nil, nil)

	byName, err := repo.List(context.Background(), "souza")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ana Souza", byName[0].Name)

	byPhone, err := repo.List(context.Background(), "1198888")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Ana Souza", byPhone[0].Name)
}
