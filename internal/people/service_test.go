package people

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/casaflow/casaflow-backend/internal/audit"
	"github.com/casaflow/casaflow-backend/pkg/db/models"
	"github.com/casaflow/casaflow-backend/pkg/enums"
	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
	"github.com/casaflow/casaflow-backend/pkg/types"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakePeopleRepo struct {
	byID    map[uuid.UUID]*models.Person
	created []*models.Person
	updated []*models.Person
	suggest []models.Person
	listed  []PersonListItem
}

func newFakePeopleRepo() *fakePeopleRepo {
	return &fakePeopleRepo{byID: map[uuid.UUID]*models.Person{}}
}

func (f *fakePeopleRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePeopleRepo) Create(ctx context.Context, person *models.Person) error {
	clone := *person
	f.created = append(f.created, &clone)
	f.byID[person.ID] = &clone
	return nil
}

func (f *fakePeopleRepo) Update(ctx context.Context, person *models.Person) error {
	clone := *person
	f.updated = append(f.updated, &clone)
	f.byID[person.ID] = &clone
	return nil
}

func (f *fakePeopleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *person
	return &clone, nil
}

func (f *fakePeopleRepo) FindByNormalizedPhone(ctx context.Context, digits string) (*models.Person, error) {
	for _, person := range f.byID {
		for _, col := range []*string{person.Phone, person.Mobile} {
			if col != nil && *NormalizePhone(col) == digits {
				clone := *person
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (f *fakePeopleRepo) SuggestByName(ctx context.Context, name string, limit int) ([]models.Person, error) {
	return f.suggest, nil
}

func (f *fakePeopleRepo) List(ctx context.Context, search string) ([]PersonListItem, error) {
	return f.listed, nil
}

type recordedAudit struct {
	action  enums.AuditAction
	entity  string
	id      string
	summary any
}

type fakeRecorder struct {
	entries []recordedAudit
}

func (f *fakeRecorder) WithTx(tx *gorm.DB) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, action enums.AuditAction, entity, entityID string, summary any) error {
	f.entries = append(f.entries, recordedAudit{action: action, entity: entity, id: entityID, summary: summary})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakePeopleRepo, *fakeRecorder) {
	t.Helper()
	repo := newFakePeopleRepo()
	recorder := &fakeRecorder{}
	svc, err := NewService(ServiceParams{DB: fakeTxRunner{}, Repo: repo, Audit: recorder})
	require.NoError(t, err)
	return svc, repo, recorder
}

func str(s string) *string { return &s }

func TestCreateRequiresName(t *testing.T) {
	svc, repo, recorder := newTestService(t)

	_, err := svc.Create(context.Background(), CreatePersonInput{Name: "   "})

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.created)
	assert.Empty(t, recorder.entries)
}

func TestCreateNormalizesAndAudits(t *testing.T) {
	svc, repo, recorder := newTestService(t)

	result, err := svc.Create(context.Background(), CreatePersonInput{
		Name:  "Ana Souza",
		Phone: str("(11) 98888-7777"),
	})

	require.NoError(t, err)
	assert.False(t, result.Reused)
	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].Phone)
	assert.Equal(t, "11988887777", *repo.created[0].Phone)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, enums.AuditActionCreatePerson, recorder.entries[0].action)
	assert.Equal(t, "person", recorder.entries[0].entity)
}

func TestCreateReusesExistingPersonByPhone(t *testing.T) {
	svc, repo, recorder := newTestService(t)

	existing := &models.Person{ID: uuid.New(), Name: "Ana", Phone: str("11988887777")}
	repo.byID[existing.ID] = existing

	result, err := svc.Create(context.Background(), CreatePersonInput{
		Name:  "Different Name",
		Phone: str("(11) 98888-7777"),
	})

	require.NoError(t, err)
	assert.True(t, result.Reused)
	assert.Equal(t, existing.ID, result.ID)
	assert.Empty(t, repo.created, "reuse must not write")
	assert.Empty(t, recorder.entries, "reuse must not audit")
}

func TestCreateMatchesAgainstMobileColumn(t *testing.T) {
	svc, repo, _ := newTestService(t)

	existing := &models.Person{ID: uuid.New(), Name: "Bruno", Mobile: str("21977776666")}
	repo.byID[existing.ID] = existing

	result, err := svc.Create(context.Background(), CreatePersonInput{
		Name:  "Bruno M.",
		Phone: str("+55 (21) 97777-6666"),
	})

	require.NoError(t, err)
	assert.True(t, result.Reused)
	assert.Equal(t, existing.ID, result.ID)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdatePersonInput{})

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateRejectsClearingName(t *testing.T) {
	svc, repo, _ := newTestService(t)

	existing := &models.Person{ID: uuid.New(), Name: "Ana"}
	repo.byID[existing.ID] = existing

	_, err := svc.Update(context.Background(), existing.ID, UpdatePersonInput{
		Name: types.NullOptional[string](),
	})

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.updated)
}

func TestUpdateAppliesTriState(t *testing.T) {
	svc, repo, recorder := newTestService(t)

	existing := &models.Person{
		ID:    uuid.New(),
		Name:  "Ana",
		Phone: str("11988887777"),
		Notes: str("old note"),
	}
	repo.byID[existing.ID] = existing

	updated, err := svc.Update(context.Background(), existing.ID, UpdatePersonInput{
		Phone: types.NewOptional("(21) 97777-6666"),
		Notes: types.NullOptional[string](),
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "21977776666", *updated.Phone, "phone must be stored normalized")
	assert.Nil(t, updated.Notes, "explicit null clears the field")
	assert.Equal(t, "Ana", updated.Name, "absent field stays untouched")

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, enums.AuditActionUpdatePerson, recorder.entries[0].action)
	summary := recorder.entries[0].summary.(map[string]any)
	changes := summary["changes"].(audit.Changes)
	assert.Contains(t, changes, "phone")
	assert.Contains(t, changes, "notes")
	assert.NotContains(t, changes, "name")
}

func TestUpdateEmptyDiffStillAudits(t *testing.T) {
	svc, repo, recorder := newTestService(t)

	existing := &models.Person{ID: uuid.New(), Name: "Ana"}
	repo.byID[existing.ID] = existing

	_, err := svc.Update(context.Background(), existing.ID, UpdatePersonInput{})

	require.NoError(t, err)
	assert.Len(t, repo.updated, 1)
	require.Len(t, recorder.entries, 1)
	summary := recorder.entries[0].summary.(map[string]any)
	assert.Empty(t, summary["changes"].(audit.Changes))
}

func TestFindByPhoneRequiresDigits(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.FindByPhone(context.Background(), "---")

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFindByPhoneNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.FindByPhone(context.Background(), "11900001111")

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSuggestSkipsBlankName(t *testing.T) {
	svc, _, _ := newTestService(t)

	suggestions, err := svc.Suggest(context.Background(), "  ")

	require.NoError(t, err)
	assert.Nil(t, suggestions)
}
