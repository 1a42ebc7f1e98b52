package points_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/points/pointstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestLedger(repo points.Repository) *points.Ledger {
	return points.NewLedger(repo, points.LedgerConfig{Now: func() time.Time { return fixedNow }})
}

func seedStudent(repo *pointstest.Repository, id string, current, lifetime int) {
	repo.Students[id] = models.Student{StudentID: id, Name: "Student " + id, CurrentPoints: current, LifetimePoints: lifetime}
}

func TestNewLedger_Defaults(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	l := points.NewLedger(repo, points.LedgerConfig{})

	assert.Equal(t, points.Today(time.Now(), time.UTC), l.Today())

	res, err := l.CheckIn(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, points.DefaultCheckInReward, res.Student.CurrentPoints)
}

func TestLedger_ApplyEvent(t *testing.T) {
	tests := []struct {
		name         string
		delta        int
		cause        models.PointsCause
		wantCurrent  int
		wantLifetime int
	}{
		{"earning raises both", 25, models.CauseChallenge, 125, 325},
		{"spending leaves lifetime", -40, models.CauseRewardPurchase, 60, 300},
		{"zero delta", 0, models.CauseCheckIn, 100, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := pointstest.NewRepository()
			seedStudent(repo, "s1", 100, 300)
			l := newTestLedger(repo)

			student, entry, err := l.ApplyEvent(context.Background(), "s1", tt.delta, tt.cause, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, student.CurrentPoints)
			assert.Equal(t, tt.wantLifetime, student.LifetimePoints)
			assert.Equal(t, tt.delta, entry.PointsChange)
			assert.Equal(t, tt.cause, entry.Type)
			assert.Len(t, repo.LedgerFor("s1"), 1)
		})
	}
}

func TestLedger_ApplyEvent_RollsBackLedgerWhenBalanceFails(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 100, 100)
	repo.FailAdjust = errors.New("connection reset")
	l := newTestLedger(repo)

	_, _, err := l.ApplyEvent(context.Background(), "s1", 10, models.CauseChallenge, "x")
	require.Error(t, err)
	assert.Empty(t, repo.LedgerFor("s1"))
	assert.Equal(t, 100, repo.Students["s1"].CurrentPoints)
}

func TestLedger_ApplyEvent_UnknownCause(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	l := newTestLedger(repo)

	_, _, err := l.ApplyEvent(context.Background(), "s1", 10, models.PointsCause("bonus"), "x")
	require.Error(t, err)
	assert.Empty(t, repo.LedgerFor("s1"))
}

func TestLedger_CheckIn(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 5, 5)
	l := newTestLedger(repo)
	ctx := context.Background()

	first, err := l.CheckIn(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, 15, first.Student.CurrentPoints)
	assert.Equal(t, 15, first.Student.LifetimePoints)
	require.NotNil(t, first.Student.LastCheckInDate)
	assert.Equal(t, models.Date("2024-05-10"), *first.Student.LastCheckInDate)
	assert.Equal(t, points.DescriptionCheckIn, first.Entry.Description)
	assert.Equal(t, models.CauseCheckIn, first.Entry.Type)

	second, err := l.CheckIn(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Nil(t, second.Entry)
	assert.Equal(t, 15, second.Student.CurrentPoints)
	assert.Len(t, repo.LedgerFor("s1"), 1)
}

func TestLedger_CheckIn_AlreadyToday(t *testing.T) {
	repo := pointstest.NewRepository()
	day := models.Date("2024-05-10")
	repo.Students["s1"] = models.Student{StudentID: "s1", CurrentPoints: 7, LifetimePoints: 7, LastCheckInDate: &day}
	l := newTestLedger(repo)

	res, err := l.CheckIn(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 7, res.Student.CurrentPoints)
	assert.Empty(t, repo.LedgerFor("s1"))
}

func TestLedger_CheckIn_ConfiguredReward(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	l := points.NewLedger(repo, points.LedgerConfig{CheckInReward: 25, Now: func() time.Time { return fixedNow }})

	res, err := l.CheckIn(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 25, res.Student.CurrentPoints)
}

func TestLedger_CheckIn_Concurrent(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	l := newTestLedger(repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.CheckIn(context.Background(), "s1")
		}()
	}
	wg.Wait()

	assert.Equal(t, points.DefaultCheckInReward, repo.Students["s1"].CurrentPoints)
	assert.Len(t, repo.LedgerFor("s1"), 1)
}

func TestLedger_CheckIn_UnknownStudent(t *testing.T) {
	l := newTestLedger(pointstest.NewRepository())
	_, err := l.CheckIn(context.Background(), "ghost")
	assert.ErrorIs(t, err, points.ErrNotFound)
}

func TestLedger_CompleteChallenge(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	repo.Challenges[7] = models.Challenge{ID: 7, Title: "Recycle a bottle", PointsReward: 30}
	l := newTestLedger(repo)
	ctx := context.Background()

	first, err := l.CompleteChallenge(ctx, "s1", 7)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, 30, first.Student.CurrentPoints)
	assert.Equal(t, 30, first.Student.LifetimePoints)
	assert.Equal(t, "Completed: Recycle a bottle", first.Entry.Description)
	assert.Equal(t, models.ChallengeStatusCompleted, first.Challenge.Status)

	second, err := l.CompleteChallenge(ctx, "s1", 7)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, 30, second.Student.CurrentPoints)
	assert.Len(t, repo.LedgerFor("s1"), 1)

	ids, err := repo.ListCompletedChallengeIDs(ctx, "s1", "2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}

func TestLedger_CompleteChallenge_NextDay(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	repo.Challenges[7] = models.Challenge{ID: 7, Title: "Walk", PointsReward: 5}

	now := fixedNow
	l := points.NewLedger(repo, points.LedgerConfig{Now: func() time.Time { return now }})

	_, err := l.CompleteChallenge(context.Background(), "s1", 7)
	require.NoError(t, err)

	now = now.Add(24 * time.Hour)
	res, err := l.CompleteChallenge(context.Background(), "s1", 7)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 10, res.Student.LifetimePoints)
}

func TestLedger_CompleteChallenge_Missing(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 0, 0)
	l := newTestLedger(repo)

	_, err := l.CompleteChallenge(context.Background(), "s1", 99)
	assert.ErrorIs(t, err, points.ErrNotFound)
	assert.Empty(t, repo.Completions)
}

func TestLedger_Redeem(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		cost        int
		wantErr     error
		wantCurrent int
		wantRewards int
		wantEntries int
	}{
		{"exact balance", 50, 50, nil, 0, 1, 1},
		{"plenty", 200, 50, nil, 150, 1, 1},
		{"short", 30, 50, points.ErrInsufficientPoints, 30, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := pointstest.NewRepository()
			seedStudent(repo, "s1", tt.current, 500)
			repo.Products[3] = models.Product{ID: 3, StoreID: 1, Name: "Coffee", CostInPoints: tt.cost}
			l := newTestLedger(repo)

			res, err := l.Redeem(context.Background(), "s1", 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.UserRewardStatusActive, res.Reward.Status)
				assert.Equal(t, int64(3), res.Reward.ProductID)
				assert.NotEmpty(t, res.Reward.ID)
				assert.Equal(t, -tt.cost, res.Entry.PointsChange)
				assert.Equal(t, models.CauseRewardPurchase, res.Entry.Type)
				assert.Equal(t, "Purchased: Coffee", res.Entry.Description)
				assert.Equal(t, 500, res.Student.LifetimePoints)
			}

			assert.Equal(t, tt.wantCurrent, repo.Students["s1"].CurrentPoints)
			assert.Equal(t, 500, repo.Students["s1"].LifetimePoints)
			assert.Len(t, repo.Rewards, tt.wantRewards)
			assert.Len(t, repo.LedgerFor("s1"), tt.wantEntries)
		})
	}
}

func TestLedger_Redeem_DoubleSubmit(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 60, 60)
	repo.Products[3] = models.Product{ID: 3, Name: "Tote", CostInPoints: 50}
	l := newTestLedger(repo)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Redeem(context.Background(), "s1", 3); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, 10, repo.Students["s1"].CurrentPoints)
	assert.Len(t, repo.Rewards, 1)
	assert.Len(t, repo.LedgerFor("s1"), 1)
}

func TestLedger_MarkUsed(t *testing.T) {
	repo := pointstest.NewRepository()
	repo.Rewards["r1"] = models.UserReward{ID: "r1", StudentID: "s1", ProductID: 3, Status: models.UserRewardStatusActive}
	l := newTestLedger(repo)
	ctx := context.Background()

	first, err := l.MarkUsed(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, models.UserRewardStatusUsed, first.Reward.Status)
	require.NotNil(t, first.Reward.UsedDate)
	assert.True(t, first.Reward.UsedDate.Equal(fixedNow))

	second, err := l.MarkUsed(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.True(t, second.Reward.UsedDate.Equal(fixedNow))
}

func TestLedger_MarkUsed_OtherStudent(t *testing.T) {
	repo := pointstest.NewRepository()
	repo.Rewards["r1"] = models.UserReward{ID: "r1", StudentID: "s1", Status: models.UserRewardStatusActive}
	l := newTestLedger(repo)

	_, err := l.MarkUsed(context.Background(), "s2", "r1")
	assert.ErrorIs(t, err, points.ErrNotFound)
	assert.Equal(t, models.UserRewardStatusActive, repo.Rewards["r1"].Status)
}

func TestLedger_Preview(t *testing.T) {
	repo := pointstest.NewRepository()
	seedStudent(repo, "s1", 30, 30)
	repo.Products[3] = models.Product{ID: 3, Name: "Mug", CostInPoints: 50}
	l := newTestLedger(repo)

	preview, err := l.Preview(context.Background(), "s1", 3)
	require.NoError(t, err)
	assert.Equal(t, 30, preview.Balance)
	assert.Equal(t, 50, preview.Cost)
	assert.Equal(t, -20, preview.BalanceAfter)
	assert.False(t, preview.CanAfford)
}
