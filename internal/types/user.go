package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
	UserStatusDeleted = "deleted"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	Nickname  string    `gorm:"not null;column:nickname" json:"nickname"`
	Status    string    `gorm:"not null;default:'active';column:status" json:"status"`
	IsDeleted bool      `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
