package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Store struct {
	bun.BaseModel `bun:"table:stores"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	Name          string    `bun:"name,notnull" json:"name" msgpack:"name"`
	LogoURL       *string   `bun:"logo_url" json:"logo_url" msgpack:"logo_url"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at" msgpack:"created_at"`

	Products []*Product `bun:"-" json:"products,omitempty" msgpack:"products"`
}

type Product struct {
	bun.BaseModel      `bun:"table:products"`
	ID                 int64     `bun:"id,pk,autoincrement" json:"id" msgpack:"id"`
	StoreID            int64     `bun:"store_id,notnull" json:"store_id" msgpack:"store_id"`
	Name               string    `bun:"name,notnull" json:"name" msgpack:"name"`
	Images             []string  `bun:"images,array" json:"images" msgpack:"images"`
	OriginalPriceINR   float64   `bun:"original_price_inr" json:"original_price_inr" msgpack:"original_price_inr"`
	DiscountedPriceINR float64   `bun:"discounted_price_inr" json:"discounted_price_inr" msgpack:"discounted_price_inr"`
	CostInPoints       int       `bun:"cost_in_points,notnull" json:"cost_in_points" msgpack:"cost_in_points"`
	Instructions       string    `bun:"instructions" json:"instructions" msgpack:"instructions"`
	CreatedAt          time.Time `bun:"created_at,default:current_timestamp" json:"created_at" msgpack:"created_at"`
}

// PurchasePreview is what the confirm dialog shows before a redemption.
type PurchasePreview struct {
	Product      *Product `json:"product"`
	Balance      int      `json:"balance"`
	Cost         int      `json:"cost"`
	BalanceAfter int      `json:"balance_after"`
	CanAfford    bool     `json:"can_afford"`
}
