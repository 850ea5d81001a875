package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WalletNonce holds the single outstanding login challenge for an address.
// Re-requesting replaces it; successful verification deletes it.
type WalletNonce struct {
	bun.BaseModel `bun:"table:wallet_nonce"`
	ZigAddress    string    `bun:"zig_address,pk" json:"zig_address"`
	Nonce         string    `bun:"nonce" json:"nonce"`
	ExpiresAt     time.Time `bun:"expires_at" json:"expires_at"`
}
