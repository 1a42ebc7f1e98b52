package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel   `bun:"table:students"`
	StudentID       string    `bun:"student_id,pk" json:"student_id" msgpack:"student_id"`
	AuthID          string    `bun:"auth_id" json:"-" msgpack:"auth_id"`
	Name            string    `bun:"name" json:"name" msgpack:"name"`
	Email           string    `bun:"email" json:"email" msgpack:"email"`
	Course          string    `bun:"course" json:"course" msgpack:"course"`
	AvatarURL       *string   `bun:"avatar_url" json:"avatar_url" msgpack:"avatar_url"`
	CurrentPoints   int       `bun:"current_points,notnull,default:0" json:"current_points" msgpack:"current_points"`
	LifetimePoints  int       `bun:"lifetime_points,notnull,default:0" json:"lifetime_points" msgpack:"lifetime_points"`
	LastCheckInDate *Date     `bun:"last_check_in_date,type:date" json:"last_check_in_date" msgpack:"last_check_in_date"`
	CreatedAt       time.Time `bun:"created_at,default:current_timestamp" json:"created_at" msgpack:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,default:current_timestamp" json:"updated_at" msgpack:"updated_at"`
}

// CheckedInOn reports whether the student's last check-in falls on day (YYYY-MM-DD).
func (s *Student) CheckedInOn(day string) bool {
	return s.LastCheckInDate != nil && string(*s.LastCheckInDate) == day
}

// Account is the identity record a student signs in with.
type Account struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            string    `bun:"id,pk" json:"id"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
