package datastore

import (
	"context"
	"time"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserReward)(nil)).IfNotExists().
		ForeignKey(`("student_id") REFERENCES "students" ("student_id") ON DELETE CASCADE`).
		ForeignKey(`("product_id") REFERENCES "products" ("id")`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserReward)(nil)).Index("index_user_rewards_student_purchase").IfNotExists().ColumnExpr("student_id, purchase_date DESC").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserReward(ctx context.Context, db bun.IDB, reward *models.UserReward) error {
	_, err := db.NewInsert().Model(reward).Exec(ctx)
	return err
}

func FindUserRewardByID(ctx context.Context, db bun.IDB, rewardID string) (*models.UserReward, error) {
	var reward models.UserReward
	err := db.NewSelect().Model(&reward).Where("id = ?", rewardID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// MarkUserRewardUsed only flips active vouchers.
func MarkUserRewardUsed(ctx context.Context, db bun.IDB, rewardID string, at time.Time) (bool, error) {
	res, err := db.NewUpdate().Model((*models.UserReward)(nil)).
		Set("status = ?", models.UserRewardStatusUsed).
		Set("used_date = ?", at).
		Where("id = ?", rewardID).
		Where("status = ?", models.UserRewardStatusActive).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func GetUserRewardsByStudent(ctx context.Context, db bun.IDB, studentID string) ([]*models.UserReward, error) {
	var rewards []*models.UserReward
	err := db.NewSelect().Model(&rewards).
		Where("student_id = ?", studentID).
		Order("purchase_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

func FindRewardDetails(ctx context.Context, db bun.IDB, rewardID string) (*models.RewardDetails, error) {
	var details models.RewardDetails
	err := db.NewSelect().
		TableExpr("user_rewards AS ur").
		ColumnExpr("ur.id AS user_reward_id").
		ColumnExpr("ur.student_id, ur.product_id, ur.purchase_date, ur.status, ur.used_date").
		ColumnExpr("p.name, p.images, p.instructions").
		ColumnExpr("s.name AS store_name, s.logo_url AS store_logo").
		Join("JOIN products AS p ON p.id = ur.product_id").
		Join("JOIN stores AS s ON s.id = p.store_id").
		Where("ur.id = ?", rewardID).
		Scan(ctx, &details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}
