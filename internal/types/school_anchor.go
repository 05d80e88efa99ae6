package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	SchoolLevelElementary = "elementary"
	SchoolLevelMiddle     = "middle"
	SchoolLevelHigh       = "high"
)

func ValidSchoolLevel(level string) bool {
	switch level {
	case SchoolLevelElementary, SchoolLevelMiddle, SchoolLevelHigh:
		return true
	default:
		return false
	}
}

// SchoolAnchor is the matching unit: one (user, institution, level, years)
// record. AnchorEmbedding stays nil until the reindex job populates it.
type SchoolAnchor struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User            *User            `gorm:"foreignKey:UserID" json:"-"`
	InstitutionID   *uuid.UUID       `gorm:"type:uuid;index;column:institution_id" json:"institution_id"`
	Institution     *Institution     `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	SchoolLevel     string           `gorm:"not null;column:school_level" json:"school_level"`
	EntryYear       *int             `gorm:"index;column:entry_year" json:"entry_year"`
	GraduationYear  *int             `gorm:"column:graduation_year" json:"graduation_year"`
	IsPrimary       bool             `gorm:"not null;default:false;column:is_primary" json:"is_primary"`
	AnchorEmbedding *pgvector.Vector `gorm:"type:vector(1536);column:anchor_embedding" json:"-"`
	CreatedAt       time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (SchoolAnchor) TableName() string {
	return "user_school_anchors"
}
