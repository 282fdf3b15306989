package reporting

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/casaflow/casaflow-backend/pkg/errors"
)

type fakeReportingRepo struct {
	received int64
	open     int64
	lateN    int64
	rows     []LateRow
}

func (f *fakeReportingRepo) ReceivedCents(ctx context.Context, year, month int) (int64, error) {
	return f.received, nil
}

func (f *fakeReportingRepo) OpenCents(ctx context.Context, year, month int) (int64, error) {
	return f.open, nil
}

func (f *fakeReportingRepo) LateHouseCount(ctx context.Context, periodKey int) (int64, error) {
	return f.lateN, nil
}

func (f *fakeReportingRepo) LateRows(ctx context.Context, periodKey int) ([]LateRow, error) {
	return f.rows, nil
}

func str(s string) *string { return &s }

func TestDashboardValidatesPeriod(t *testing.T) {
	svc, err := NewService(&fakeReportingRepo{})
	require.NoError(t, err)

	_, err = svc.Dashboard(context.Background(), 2024, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDashboardPassesThroughSums(t *testing.T) {
	svc, err := NewService(&fakeReportingRepo{received: 18000, open: 9000, lateN: 2})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background(), 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(18000), dashboard.ReceivedCents)
	assert.Equal(t, int64(9000), dashboard.OpenCents)
	assert.Equal(t, int64(2), dashboard.HousesLateCount)
}

func TestListLateGroupsByHouseWithMaxDelay(t *testing.T) {
	houseA := uuid.New()
	houseB := uuid.New()
	respID := uuid.New()

	repo := &fakeReportingRepo{rows: []LateRow{
		{HouseID: houseA, Street: str("Rua A"), ResponsibleID: &respID, ResponsibleName: str("Ana"),
			InvoiceID: uuid.New(), Year: 2024, Month: 2, AmountCents: 9000},
		{HouseID: houseA, Street: str("Rua A"), ResponsibleID: &respID, ResponsibleName: str("Ana"),
			InvoiceID: uuid.New(), Year: 2024, Month: 1, AmountCents: 9000},
		{HouseID: houseB, Street: str("Rua B"),
			InvoiceID: uuid.New(), Year: 2024, Month: 3, AmountCents: 12000},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	items, err := svc.ListLate(context.Background(), 2024, 4)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, houseA, items[0].HouseID)
	assert.Equal(t, 3, items[0].MonthsLate, "worst invoice (2024-01) is three periods behind 2024-04")
	assert.Len(t, items[0].Invoices, 2)
	require.NotNil(t, items[0].Responsible)
	assert.Equal(t, "Ana", items[0].Responsible.Name)

	assert.Equal(t, houseB, items[1].HouseID)
	assert.Equal(t, 1, items[1].MonthsLate)
	assert.Nil(t, items[1].Responsible)
}

func TestListLateEmptyResult(t *testing.T) {
	svc, err := NewService(&fakeReportingRepo{})
	require.NoError(t, err)

	items, err := svc.ListLate(context.Background(), 2024, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}
