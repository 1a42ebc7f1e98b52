package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	Title         string    `bun:"title,notnull" json:"title" msgpack:"title"`
	Description   string    `bun:"description" json:"description" msgpack:"description"`
	EventDate     time.Time `bun:"event_date,notnull" json:"event_date" msgpack:"event_date"`
	PointsReward  int       `bun:"points_reward" json:"points_reward" msgpack:"points_reward"`
}
