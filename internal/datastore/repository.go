package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/points"

	"github.com/uptrace/bun"
)

// Repository backs points.Repository with postgres. Inside Atomic it is bound
// to the running transaction.
type Repository struct {
	db bun.IDB
}

var _ points.Repository = (*Repository)(nil)

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db}
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return points.ErrNotFound
	}
	return err
}

func (r *Repository) Atomic(ctx context.Context, fn func(ctx context.Context, repo points.Repository) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Repository{tx})
	})
}

func (r *Repository) FindStudent(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := FindStudentByID(ctx, r.db, studentID)
	return student, translate(err)
}

func (r *Repository) FindStudentByAuthID(ctx context.Context, authID string) (*models.Student, error) {
	student, err := FindStudentByAuthID(ctx, r.db, authID)
	return student, translate(err)
}

func (r *Repository) InsertStudent(ctx context.Context, student *models.Student) error {
	_, err := CreateStudent(ctx, r.db, student)
	return err
}

func (r *Repository) StampCheckIn(ctx context.Context, studentID string, day string) (bool, error) {
	stamped, err := StampStudentCheckIn(ctx, r.db, studentID, day)
	if err != nil {
		return false, err
	}
	if !stamped {
		// tell a missing student apart from one already stamped today
		if _, err := FindStudentByID(ctx, r.db, studentID); err != nil {
			return false, translate(err)
		}
	}
	return stamped, nil
}

func (r *Repository) AdjustBalance(ctx context.Context, studentID string, delta int) (*models.Student, error) {
	student, ok, err := AdjustStudentPoints(ctx, r.db, studentID, delta)
	if err != nil {
		return nil, err
	}
	if ok {
		return student, nil
	}

	if _, err := FindStudentByID(ctx, r.db, studentID); err != nil {
		return nil, translate(err)
	}
	return nil, points.ErrInsufficientPoints
}

func (r *Repository) InsertLedgerEntry(ctx context.Context, entry *models.PointsHistory) error {
	return InsertPointsHistory(ctx, r.db, entry)
}

func (r *Repository) ListLedgerEntries(ctx context.Context, studentID string, limit int) ([]*models.PointsHistory, error) {
	return GetPointsHistoryByStudent(ctx, r.db, studentID, limit)
}

func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	return GetTopStudentsByLifetimePoints(ctx, r.db, limit)
}

func (r *Repository) ListChallenges(ctx context.Context) ([]*models.Challenge, error) {
	return GetChallenges(ctx, r.db)
}

func (r *Repository) FindChallenge(ctx context.Context, challengeID int64) (*models.Challenge, error) {
	challenge, err := FindChallengeByID(ctx, r.db, challengeID)
	return challenge, translate(err)
}

func (r *Repository) ListCompletedChallengeIDs(ctx context.Context, studentID string, day string) ([]int64, error) {
	return GetCompletedChallengeIDs(ctx, r.db, studentID, day)
}

func (r *Repository) InsertCompletion(ctx context.Context, completion *models.ChallengeCompletion) (bool, error) {
	return InsertChallengeCompletion(ctx, r.db, completion)
}

func (r *Repository) ListLevels(ctx context.Context) ([]models.Level, error) {
	return GetLevels(ctx, r.db)
}

func (r *Repository) ListStores(ctx context.Context) ([]*models.Store, error) {
	return GetStores(ctx, r.db)
}

func (r *Repository) FindStore(ctx context.Context, storeID int64) (*models.Store, error) {
	store, err := FindStoreByID(ctx, r.db, storeID)
	return store, translate(err)
}

func (r *Repository) ListProducts(ctx context.Context, storeID int64) ([]*models.Product, error) {
	return GetProducts(ctx, r.db, storeID)
}

func (r *Repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := FindProductByID(ctx, r.db, productID)
	return product, translate(err)
}

func (r *Repository) InsertUserReward(ctx context.Context, reward *models.UserReward) error {
	return InsertUserReward(ctx, r.db, reward)
}

func (r *Repository) FindUserReward(ctx context.Context, rewardID string) (*models.UserReward, error) {
	reward, err := FindUserRewardByID(ctx, r.db, rewardID)
	return reward, translate(err)
}

func (r *Repository) MarkUserRewardUsed(ctx context.Context, rewardID string, at time.Time) (bool, error) {
	return MarkUserRewardUsed(ctx, r.db, rewardID, at)
}

func (r *Repository) ListUserRewards(ctx context.Context, studentID string) ([]*models.UserReward, error) {
	return GetUserRewardsByStudent(ctx, r.db, studentID)
}

func (r *Repository) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return GetEvents(ctx, r.db)
}

func (r *Repository) FindRewardDetails(ctx context.Context, rewardID string) (*models.RewardDetails, error) {
	details, err := FindRewardDetails(ctx, r.db, rewardID)
	return details, translate(err)
}

func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := FindAccountByEmail(ctx, r.db, email)
	return account, translate(err)
}

func (r *Repository) CreateAccount(ctx context.Context, account *models.Account, student *models.Student) error {
	return CreateAccountWithStudent(ctx, r.db, account, student)
}

func (r *Repository) GetConfig(ctx context.Context, key string) (*models.Config, error) {
	config, err := GetConfigByKey(ctx, r.db, key)
	return config, translate(err)
}

func (r *Repository) SetConfig(ctx context.Context, config *models.Config) error {
	_, err := EditConfig(ctx, r.db, config)
	return err
}
