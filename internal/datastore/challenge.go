package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableChallenge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Challenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.ChallengeCompletion)(nil)).IfNotExists().
		ForeignKey(`("challenge_id") REFERENCES "challenges" ("id") ON DELETE CASCADE`).
		ForeignKey(`("student_id") REFERENCES "students" ("student_id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChallengeCompletion)(nil)).Index("index_challenge_completions_unique_day").IfNotExists().Unique().Column("student_id", "challenge_id", "completed_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetChallenges(ctx context.Context, db bun.IDB) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := db.NewSelect().Model(&challenges).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

func FindChallengeByID(ctx context.Context, db bun.IDB, challengeID int64) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.NewSelect().Model(&challenge).Where("id = ?", challengeID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func GetCompletedChallengeIDs(ctx context.Context, db bun.IDB, studentID string, day string) ([]int64, error) {
	var ids []int64
	err := db.NewSelect().Model((*models.ChallengeCompletion)(nil)).
		Column("challenge_id").
		Where("student_id = ?", studentID).
		Where("completed_at = ?::date", day).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertChallengeCompletion reports false when the student already completed the challenge that day.
func InsertChallengeCompletion(ctx context.Context, db bun.IDB, completion *models.ChallengeCompletion) (bool, error) {
	res, err := db.NewInsert().Model(completion).On("CONFLICT (student_id, challenge_id, completed_at) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func InsertChallenges(ctx context.Context, db bun.IDB, challenges []*models.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&challenges).Exec(ctx)
	return err
}
