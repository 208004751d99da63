package models

import "time"

// RewardScope tags which threshold table earned the reward
type RewardScope string

const (
	RewardScopePersonal RewardScope = "personal"
	RewardScopeGlobal   RewardScope = "global"
)

// Reward records that a user crossed a threshold and a prize was granted. At
// most one row per (user, reward_type) ever — the unique index makes a
// duplicate-grant race fail closed on the second writer.
//
// Grants track the historical peak, not the current balance: a later admin
// subtraction that drops the total back under the threshold does NOT revoke
// the row. Do not "fix" this by recomputing grants from current balances.
type Reward struct {
	ID         string      `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string      `gorm:"not null;uniqueIndex:idx_rewards_user_type" json:"user_id"`
	RewardType string      `gorm:"not null;uniqueIndex:idx_rewards_user_type" json:"reward_type"`
	Scope      RewardScope `gorm:"type:varchar(16);not null" json:"scope"`
	AwardedAt  time.Time   `gorm:"autoCreateTime" json:"awarded_at"`
}
