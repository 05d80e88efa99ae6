package types

import (
	"time"

	"github.com/google/uuid"
)

// UserKeyword is supplementary context for explanations only; it never feeds
// ranking.
type UserKeyword struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Keyword   string    `gorm:"not null;column:keyword" json:"keyword"`
	Weight    int       `gorm:"not null;default:1;column:weight" json:"weight"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (UserKeyword) TableName() string {
	return "user_keywords"
}
