package datastore

import (
	"context"
	"strings"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAccount(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Account)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindAccountByEmail(ctx context.Context, db bun.IDB, email string) (*models.Account, error) {
	var account models.Account
	err := db.NewSelect().Model(&account).Where("email = ?", strings.ToLower(email)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccountWithStudent inserts the sign-in identity and its profile row together.
func CreateAccountWithStudent(ctx context.Context, db bun.IDB, account *models.Account, student *models.Student) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account.Email = strings.ToLower(account.Email)
		if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
			return err
		}

		student.AuthID = account.ID
		_, err := CreateStudent(ctx, tx, student)
		return err
	})
}
