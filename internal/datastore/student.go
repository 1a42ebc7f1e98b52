package datastore

import (
	"context"
	"database/sql"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableStudent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Student)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Student)(nil)).Index("index_students_auth_id").IfNotExists().Unique().Column("auth_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Student)(nil)).Index("index_students_lifetime_points").IfNotExists().ColumnExpr("lifetime_points DESC").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindStudentByID(ctx context.Context, db bun.IDB, studentID string) (*models.Student, error) {
	var student models.Student
	err := db.NewSelect().Model(&student).Where("student_id = ?", studentID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func FindStudentByAuthID(ctx context.Context, db bun.IDB, authID string) (*models.Student, error) {
	var student models.Student
	err := db.NewSelect().Model(&student).Where("auth_id = ?", authID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func CreateStudent(ctx context.Context, db bun.IDB, student *models.Student) (*models.Student, error) {
	_, err := db.NewInsert().Model(student).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// StampStudentCheckIn only updates when the stored date differs from day.
func StampStudentCheckIn(ctx context.Context, db bun.IDB, studentID string, day string) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Student)(nil)).
		Set("last_check_in_date = ?", day).
		Set("updated_at = current_timestamp").
		Where("student_id = ?", studentID).
		Where("last_check_in_date IS DISTINCT FROM ?::date", day).
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

// AdjustStudentPoints moves current_points by delta and, for earnings, lifetime_points too.
// Spends are guarded by current_points >= cost; a zero row count means the balance was short.
func AdjustStudentPoints(ctx context.Context, db bun.IDB, studentID string, delta int) (*models.Student, bool, error) {
	var student models.Student
	q := db.NewUpdate().Model(&student).
		Set("current_points = current_points + ?", delta).
		Set("updated_at = current_timestamp").
		Where("student_id = ?", studentID)

	if delta >= 0 {
		q = q.Set("lifetime_points = lifetime_points + ?", delta)
	} else {
		q = q.Where("current_points >= ?", -delta)
	}

	res, err := q.Returning("*").Exec(ctx)
	if err != nil {
		return nil, false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	return &student, true, nil
}

// GetTopStudentsByLifetimePoints breaks ties by student id descending, the
// order ZREVRANGE gives equal scores.
func GetTopStudentsByLifetimePoints(ctx context.Context, db bun.IDB, limit int) ([]*models.LeaderboardItem, error) {
	var items []*models.LeaderboardItem
	err := db.NewSelect().Model((*models.Student)(nil)).
		Column("student_id", "name", "avatar_url", "lifetime_points").
		OrderExpr("lifetime_points DESC, student_id DESC").
		Limit(limit).
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetStudentLeaderboardPage is used by the leaderboard rebuild job.
func GetStudentLeaderboardPage(ctx context.Context, db bun.IDB, limit int, offset int) ([]*models.LeaderboardItem, error) {
	var items []*models.LeaderboardItem
	err := db.NewSelect().Model((*models.Student)(nil)).
		Column("student_id", "name", "avatar_url", "lifetime_points").
		OrderExpr("student_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteStudent removes the profile and its account. Ledger rows, completions
// and vouchers go with it through ON DELETE CASCADE.
func DeleteStudent(ctx context.Context, db bun.IDB, studentID string) (*models.Student, error) {
	var student models.Student
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model(&student).Where("student_id = ?", studentID).Returning("*").Exec(ctx)
		if err != nil {
			return err
		}
		if student.StudentID == "" {
			return sql.ErrNoRows
		}

		_, err = tx.NewDelete().Model((*models.Account)(nil)).Where("id = ?", student.AuthID).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// ResetStudentCheckIn lets the student check in again today.
func ResetStudentCheckIn(ctx context.Context, db bun.IDB, studentID string) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Student)(nil)).
		Set("last_check_in_date = NULL").
		Set("updated_at = current_timestamp").
		Where("student_id = ?", studentID).
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
