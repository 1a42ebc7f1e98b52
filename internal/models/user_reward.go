package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	UserRewardStatusActive = "active"
	UserRewardStatusUsed   = "used"
)

// UserReward is a redeemed voucher. Status only ever moves active -> used.
type UserReward struct {
	bun.BaseModel `bun:"table:user_rewards"`
	ID            string     `bun:"id,pk" json:"id" msgpack:"id"`
	StudentID     string     `bun:"student_id,notnull" json:"student_id" msgpack:"student_id"`
	ProductID     int64      `bun:"product_id,notnull" json:"product_id" msgpack:"product_id"`
	Status        string     `bun:"status,notnull,default:'active'" json:"status" msgpack:"status"`
	PurchaseDate  time.Time  `bun:"purchase_date,notnull,default:current_timestamp" json:"purchase_date" msgpack:"purchase_date"`
	UsedDate      *time.Time `bun:"used_date" json:"used_date" msgpack:"used_date"`
}

func (r *UserReward) Used() bool {
	return r.Status == UserRewardStatusUsed
}

// RewardDetails joins a voucher with its product and store for display.
type RewardDetails struct {
	UserRewardID string     `bun:"user_reward_id" json:"user_reward_id"`
	StudentID    string     `bun:"student_id" json:"-"`
	ProductID    int64      `bun:"product_id" json:"product_id"`
	Name         string     `bun:"name" json:"name"`
	Images       []string   `bun:"images,array" json:"images"`
	Instructions string     `bun:"instructions" json:"instructions"`
	StoreName    string     `bun:"store_name" json:"store_name"`
	StoreLogo    *string    `bun:"store_logo" json:"store_logo"`
	PurchaseDate time.Time  `bun:"purchase_date" json:"purchase_date"`
	Status       string     `bun:"status" json:"status"`
	UsedDate     *time.Time `bun:"used_date" json:"used_date"`
	QRPayload    string     `bun:"-" json:"qr_payload"`
	QRCodeURL    string     `bun:"-" json:"qr_code_url"`
}
