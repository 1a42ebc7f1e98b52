package services_test

import (
	"context"
	"testing"
	"time"

	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/models"
	"ecopoints/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceStudent_GetSessionReloadsStaleDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addStudent("s1", 10, 10)

	service := mustService(t, services.NewServiceStudent, env.container)

	session, err := service.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), session.Day)

	session.Day = "2000-01-01"
	session.Student.CurrentPoints = 999
	require.NoError(t, redis_store.SaveSession(ctx, env.redis, session, time.Minute))

	reloaded, err := service.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Student.CurrentPoints)
	assert.NotEqual(t, "2000-01-01", reloaded.Day)
}

func TestServiceStudent_FindStudentCachesUntilInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addStudent("s1", 10, 10)

	service := mustService(t, services.NewServiceStudent, env.container)

	student, err := service.FindStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, student.CurrentPoints)

	env.addStudent("s1", 99, 99)
	cached, err := service.FindStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, cached.CurrentPoints)

	require.NoError(t, service.InvalidateStudent(ctx, cached))
	fresh, err := service.FindStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 99, fresh.CurrentPoints)

	_, err = service.FindStudent(ctx, "ghost")
	require.Error(t, err)
}

func TestServiceStudent_GetHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addStudent("s1", 0, 0)
	for i := 0; i < 25; i++ {
		env.repo.Ledger = append(env.repo.Ledger, models.PointsHistory{ID: int64(i + 1), StudentID: "s1", PointsChange: i, Type: models.CauseCheckIn})
	}

	service := mustService(t, services.NewServiceStudent, env.container)

	history, err := service.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, services.DEFAULT_HISTORY_LIMIT)
	assert.Equal(t, 24, history[0].PointsChange)

	short, err := service.GetHistory(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Len(t, short, 5)
}
