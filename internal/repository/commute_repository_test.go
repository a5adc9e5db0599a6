package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/commutetrackr-go/internal/database"
	"github.com/jengzang/commutetrackr-go/internal/models"
)

func newTestRepository(t *testing.T) *CommuteRepository {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "commute.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewCommuteRepository(conn)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "2025-03-03")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "2025-03-03")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2025-03-03", second.Date)
	assert.Empty(t, second.Events)
}

func TestGetByDateMissing(t *testing.T) {
	repo := newTestRepository(t)

	log, err := repo.GetByDate(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestSetSlotIfUnsetWritesOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	ok, err := repo.SetSlotIfUnset(ctx, "2025-03-03", models.BoardedTrainOut, "07:50:00")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetSlotIfUnset(ctx, "2025-03-03", models.BoardedTrainOut, "07:55:00")
	require.NoError(t, err)
	assert.False(t, ok)

	log, err := repo.GetByDate(ctx, "2025-03-03")
	require.NoError(t, err)
	v, set := log.Get(models.BoardedTrainOut)
	require.True(t, set)
	assert.Equal(t, "07:50:00", v)
}

func TestSetSlotsIfUnsetReportsSkipped(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.SetSlotIfUnset(ctx, "2025-03-03", models.LeftHome, "07:29:00")
	require.NoError(t, err)

	written, skipped, err := repo.SetSlotsIfUnset(ctx, "2025-03-03", map[models.Slot]string{
		models.LeftHome:         "07:30:00",
		models.ArrivedAtStation: "07:42:00",
		models.LeftStation:      "18:35:00",
		models.ArrivedAtHome:    "18:50:00",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Slot{models.ArrivedAtStation, models.LeftStation, models.ArrivedAtHome}, written)
	assert.Equal(t, []models.Slot{models.LeftHome}, skipped)

	log, err := repo.GetByDate(ctx, "2025-03-03")
	require.NoError(t, err)
	v, _ := log.Get(models.LeftHome)
	assert.Equal(t, "07:29:00", v)
}

func TestListActiveSkipsInactiveDays(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureDay(ctx, "2025-03-01"))
	// arrival slots alone do not make a day active
	_, err := repo.SetSlotIfUnset(ctx, "2025-03-02", models.ArrivedAtHome, "18:50:00")
	require.NoError(t, err)
	_, err = repo.SetSlotIfUnset(ctx, "2025-03-04", models.BoardedTubeReturn, "17:40:00")
	require.NoError(t, err)
	_, err = repo.SetSlotIfUnset(ctx, "2025-03-03", models.LeftHome, "07:30:00")
	require.NoError(t, err)

	logs, err := repo.ListActive(ctx, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2025-03-03", logs[0].Date)
	assert.Equal(t, "2025-03-04", logs[1].Date)

	logs, err = repo.ListActive(ctx, models.LogFilter{From: "2025-03-04"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2025-03-04", logs[0].Date)
}

func TestListActiveTreatsEmptyStringsAsUnset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO commute_logs (date, left_home, boarded_train_out) VALUES (?, '', '')", "2025-03-05")
	require.NoError(t, err)
	_, err = repo.SetSlotIfUnset(ctx, "2025-03-06", models.LeftHome, "07:30:00")
	require.NoError(t, err)

	logs, err := repo.ListActive(ctx, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2025-03-06", logs[0].Date)
}
