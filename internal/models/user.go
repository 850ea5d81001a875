package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            string    `bun:"id,pk" json:"id"`
	ZigAddress    string    `bun:"zig_address,unique" json:"zig_address"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	LastLoginAt   time.Time `bun:"last_login_at,default:current_timestamp" json:"last_login_at"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	UserID     string `json:"user_id"`
	ZigAddress string `json:"zig_address"`
}
