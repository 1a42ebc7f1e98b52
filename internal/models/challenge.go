package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"
)

type Challenge struct {
	bun.BaseModel `bun:"table:challenges"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	Title         string    `bun:"title,notnull" json:"title" msgpack:"title"`
	Description   string    `bun:"description" json:"description" msgpack:"description"`
	Icon          string    `bun:"icon" json:"icon" msgpack:"icon"`
	PointsReward  int       `bun:"points_reward,notnull" json:"points_reward" msgpack:"points_reward"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at" msgpack:"created_at"`

	Status string `bun:"-" json:"status" msgpack:"status"`
}

type ChallengeCompletion struct {
	bun.BaseModel `bun:"table:challenge_completions"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	ChallengeID   int64     `bun:"challenge_id,notnull" json:"challenge_id"`
	StudentID     string    `bun:"student_id,notnull" json:"student_id"`
	CompletedAt   Date      `bun:"completed_at,type:date,notnull" json:"completed_at"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
