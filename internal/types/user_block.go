package types

import (
	"time"

	"github.com/google/uuid"
)

// UserBlock is a directed pair; matching applies it in both directions.
type UserBlock struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_blocks_pair,unique;column:blocker_id" json:"blocker_id"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_blocks_pair,unique;column:blocked_id" json:"blocked_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (UserBlock) TableName() string {
	return "user_blocks"
}
