package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrshot.dev/cli/internal/core/domain"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, domain.CaptureRecord{
		Address:    "10.0.0.1",
		Plugin:     "rigol-1000",
		Mode:       domain.SelectionExplicit,
		Path:       "a.bmp",
		Format:     "bmp",
		Size:       1152054,
		CapturedAt: base,
	}))
	require.NoError(t, store.Record(ctx, domain.CaptureRecord{
		Address:    "10.0.0.2",
		Mode:       domain.SelectionAutodetect,
		Identity:   "FLUKE,8846A",
		Error:      domain.ErrNoPluginDetected.Error(),
		CapturedAt: base.Add(time.Minute),
	}))

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "10.0.0.2", records[0].Address)
	assert.False(t, records[0].Succeeded())
	assert.Equal(t, domain.SelectionAutodetect, records[0].Mode)
	assert.NotEmpty(t, records[0].ID)

	assert.Equal(t, "rigol-1000", records[1].Plugin)
	assert.Equal(t, 1152054, records[1].Size)
	assert.True(t, records[1].CapturedAt.Equal(base))
	assert.True(t, records[1].Succeeded())
}

func TestStore_List_Limit(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, store.Record(ctx, domain.CaptureRecord{
			Address:    "10.0.0.1",
			Mode:       domain.SelectionExplicit,
			CapturedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	records, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].CapturedAt.Equal(base.Add(4*time.Second)))
}

func TestStore_List_SubsecondOrdering(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 7, 9, 0, 5, 0, time.UTC)

	require.NoError(t, store.Record(ctx, domain.CaptureRecord{ID: "whole", Address: "a", Mode: domain.SelectionExplicit, CapturedAt: base}))
	require.NoError(t, store.Record(ctx, domain.CaptureRecord{ID: "half", Address: "a", Mode: domain.SelectionExplicit, CapturedAt: base.Add(500 * time.Millisecond)}))

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "half", records[0].ID)
}

func TestStore_Record_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS captures").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO captures").WillReturnError(assert.AnError)

	store, err := New(db)
	require.NoError(t, err)

	err = store.Record(context.Background(), domain.CaptureRecord{Address: "10.0.0.1", Mode: domain.SelectionExplicit})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_New_MigrationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	_, err = New(db)
	assert.ErrorIs(t, err, assert.AnError)
}
