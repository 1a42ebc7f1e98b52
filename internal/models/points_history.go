package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PointsCause string

const (
	CauseCheckIn        PointsCause = "check-in"
	// Stored as "challenge" rather than "challenge-completion" to match
	// existing points_history rows.
	CauseChallenge      PointsCause = "challenge"
	CauseRewardPurchase PointsCause = "reward-purchase"
)

func (c PointsCause) Valid() bool {
	switch c {
	case CauseCheckIn, CauseChallenge, CauseRewardPurchase:
		return true
	}
	return false
}

// PointsHistory is one ledger entry. Rows are insert-only.
type PointsHistory struct {
	bun.BaseModel `bun:"table:points_history"`
	ID            int64       `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	StudentID     string      `bun:"student_id,notnull" json:"student_id" msgpack:"student_id"`
	PointsChange  int         `bun:"points_change,notnull" json:"points_change" msgpack:"points_change"`
	Description   string      `bun:"description" json:"description" msgpack:"description"`
	Type          PointsCause `bun:"type,notnull" json:"type" msgpack:"type"`
	CreatedAt     time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at" msgpack:"created_at"`
}
