package models

import "time"

// TokenBlacklist records a refresh token revoked at logout. The API only
// inserts rows; process/cmd_prune_blacklist removes expired ones.
type TokenBlacklist struct {
	ID            uint      `gorm:"primaryKey"`
	Token         string    `gorm:"type:text;not null;index"`
	BlacklistedAt time.Time `gorm:"autoCreateTime;not null;index"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
