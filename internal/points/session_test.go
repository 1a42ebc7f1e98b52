package points_test

import (
	"context"
	"testing"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/points/pointstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func seedDashboard(repo *pointstest.Repository) {
	seedStudent(repo, "s1", 120, 250)
	seedStudent(repo, "s2", 0, 900)
	seedStudent(repo, "s3", 0, 10)
	repo.Levels = append(repo.Levels, testLevels...)
	repo.Challenges[1] = models.Challenge{ID: 1, Title: "Bike to campus", PointsReward: 20}
	repo.Challenges[2] = models.Challenge{ID: 2, Title: "Refill bottle", PointsReward: 10}
	repo.Completions[pointstest.CompletionKey("s1", 2, "2024-05-10")] = models.ChallengeCompletion{ChallengeID: 2, StudentID: "s1", CompletedAt: "2024-05-10"}
	repo.Stores[1] = models.Store{ID: 1, Name: "Cafe"}
	repo.Stores[2] = models.Store{ID: 2, Name: "Books"}
	repo.Products[10] = models.Product{ID: 10, StoreID: 1, Name: "Latte", CostInPoints: 100}
	repo.Products[11] = models.Product{ID: 11, StoreID: 1, Name: "Muffin", CostInPoints: 40}
	repo.Events = []models.Event{{ID: 1, Title: "Tree planting", EventDate: fixedNow}}
}

func TestLoadSession(t *testing.T) {
	repo := pointstest.NewRepository()
	seedDashboard(repo)

	s, err := points.LoadSession(context.Background(), repo, "s1", points.SessionOptions{Day: "2024-05-10", LeaderboardLimit: 2})
	require.NoError(t, err)

	assert.Equal(t, "s1", s.Student.StudentID)
	assert.Equal(t, 2, s.Level.LevelNumber)
	assert.Equal(t, 37.5, s.Level.Progress)

	require.Len(t, s.Leaderboard, 2)
	assert.Equal(t, "s2", s.Leaderboard[0].StudentID)
	assert.Equal(t, 1, s.Leaderboard[0].Rank)
	assert.Equal(t, "s1", s.Leaderboard[1].StudentID)
	assert.Equal(t, 2, s.Leaderboard[1].Rank)

	require.Len(t, s.Challenges, 2)
	assert.Equal(t, models.ChallengeStatusActive, s.Challenges[0].Status)
	assert.Equal(t, models.ChallengeStatusCompleted, s.Challenges[1].Status)

	require.Len(t, s.Stores, 2)
	assert.Len(t, s.Stores[0].Products, 2)
	assert.Empty(t, s.Stores[1].Products)

	assert.Len(t, s.Events, 1)
	assert.Equal(t, points.DefaultHistoryLimit, s.HistorySize)
}

func TestLoadSession_MissingStudent(t *testing.T) {
	repo := pointstest.NewRepository()
	seedDashboard(repo)

	_, err := points.LoadSession(context.Background(), repo, "ghost", points.SessionOptions{Day: "2024-05-10"})
	assert.ErrorIs(t, err, points.ErrNotFound)
}

func TestSession_AppliesFlowResults(t *testing.T) {
	repo := pointstest.NewRepository()
	seedDashboard(repo)
	l := newTestLedger(repo)
	ctx := context.Background()

	s, err := points.LoadSession(ctx, repo, "s1", points.SessionOptions{Day: l.Today()})
	require.NoError(t, err)

	checkIn, err := l.CheckIn(ctx, "s1")
	require.NoError(t, err)
	s.ApplyCheckIn(checkIn)
	assert.Equal(t, 130, s.Student.CurrentPoints)
	require.Len(t, s.History, 1)
	assert.Equal(t, models.CauseCheckIn, s.History[0].Type)

	challenge, err := l.CompleteChallenge(ctx, "s1", 1)
	require.NoError(t, err)
	s.ApplyChallenge(challenge)
	assert.Equal(t, models.ChallengeStatusCompleted, s.Challenges[0].Status)
	assert.Equal(t, 280, s.Student.LifetimePoints)

	redeem, err := l.Redeem(ctx, "s1", 10)
	require.NoError(t, err)
	s.ApplyRedeem(redeem)
	assert.Equal(t, 50, s.Student.CurrentPoints)
	assert.Equal(t, 280, s.Student.LifetimePoints)
	require.Len(t, s.Rewards, 1)
	assert.Equal(t, redeem.Reward.ID, s.Rewards[0].ID)
	assert.Len(t, s.History, 3)
	assert.Equal(t, models.CauseRewardPurchase, s.History[0].Type)

	used, err := l.MarkUsed(ctx, "s1", redeem.Reward.ID)
	require.NoError(t, err)
	s.ApplyMarkUsed(used)
	assert.Equal(t, models.UserRewardStatusUsed, s.Rewards[0].Status)
}

func TestSession_HistoryIsCapped(t *testing.T) {
	s := &points.Session{HistorySize: 2, Student: &models.Student{}}
	for i := 0; i < 5; i++ {
		s.ApplyCheckIn(&points.CheckInResult{Student: &models.Student{}, Entry: &models.PointsHistory{ID: int64(i)}})
	}
	require.Len(t, s.History, 2)
	assert.Equal(t, int64(4), s.History[0].ID)
	assert.Equal(t, int64(3), s.History[1].ID)
}

func TestSession_MsgpackRoundTrip(t *testing.T) {
	repo := pointstest.NewRepository()
	seedDashboard(repo)

	s, err := points.LoadSession(context.Background(), repo, "s1", points.SessionOptions{Day: "2024-05-10"})
	require.NoError(t, err)

	b, err := msgpack.Marshal(s)
	require.NoError(t, err)

	var got points.Session
	require.NoError(t, msgpack.Unmarshal(b, &got))
	assert.Equal(t, s.Student.StudentID, got.Student.StudentID)
	assert.Equal(t, s.Level, got.Level)
	assert.Len(t, got.Stores, 2)
	assert.True(t, got.Events[0].EventDate.Equal(fixedNow.Truncate(time.Microsecond)))
}
