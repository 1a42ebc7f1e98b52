package points

import (
	"context"
	"errors"
	"time"

	"ecopoints/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidLevels      = errors.New("invalid level table")
)

// Repository is the persistent store behind the ledger. Implementations must make
// StampCheckIn, AdjustBalance and MarkUserRewardUsed conditional so a concurrent
// duplicate request cannot apply twice.
type Repository interface {
	FindStudent(ctx context.Context, studentID string) (*models.Student, error)
	FindStudentByAuthID(ctx context.Context, authID string) (*models.Student, error)
	InsertStudent(ctx context.Context, student *models.Student) error

	// StampCheckIn sets last_check_in_date to day unless it already equals day.
	// It reports whether the row changed.
	StampCheckIn(ctx context.Context, studentID string, day string) (bool, error)
	// AdjustBalance adds delta to current_points, and to lifetime_points when delta
	// is not negative. A spend that would overdraw returns ErrInsufficientPoints.
	AdjustBalance(ctx context.Context, studentID string, delta int) (*models.Student, error)

	InsertLedgerEntry(ctx context.Context, entry *models.PointsHistory) error
	ListLedgerEntries(ctx context.Context, studentID string, limit int) ([]*models.PointsHistory, error)
	// Leaderboard orders by lifetime points, ties by student id descending.
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardItem, error)

	ListChallenges(ctx context.Context) ([]*models.Challenge, error)
	FindChallenge(ctx context.Context, challengeID int64) (*models.Challenge, error)
	ListCompletedChallengeIDs(ctx context.Context, studentID string, day string) ([]int64, error)
	// InsertCompletion reports false when the (student, challenge, day) row already exists.
	InsertCompletion(ctx context.Context, completion *models.ChallengeCompletion) (bool, error)

	ListLevels(ctx context.Context) ([]models.Level, error)

	ListStores(ctx context.Context) ([]*models.Store, error)
	FindStore(ctx context.Context, storeID int64) (*models.Store, error)
	// ListProducts returns every product when storeID is 0.
	ListProducts(ctx context.Context, storeID int64) ([]*models.Product, error)
	FindProduct(ctx context.Context, productID int64) (*models.Product, error)

	InsertUserReward(ctx context.Context, reward *models.UserReward) error
	FindUserReward(ctx context.Context, rewardID string) (*models.UserReward, error)
	// MarkUserRewardUsed only touches active rewards and reports whether one changed.
	MarkUserRewardUsed(ctx context.Context, rewardID string, at time.Time) (bool, error)
	ListUserRewards(ctx context.Context, studentID string) ([]*models.UserReward, error)

	ListEvents(ctx context.Context) ([]*models.Event, error)

	// Atomic runs fn inside one transaction. Every write made through the
	// repository passed to fn is rolled back when fn returns an error.
	Atomic(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
