package types

import (
	"time"

	"github.com/google/uuid"
)

// Institution is immutable school reference data maintained by a separate
// catalog importer; this service only reads it.
type Institution struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExternalCode   string    `gorm:"uniqueIndex;column:external_code" json:"external_code"`
	Name           string    `gorm:"not null;index;column:name" json:"name"`
	Level          string    `gorm:"column:level" json:"level"`
	RegionCity     string    `gorm:"index;column:region_city" json:"region_city"`
	RegionDistrict string    `gorm:"index;column:region_district" json:"region_district"`
	Address        string    `gorm:"column:address" json:"address"`
	IsActive       bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Institution) TableName() string {
	return "institutions"
}
