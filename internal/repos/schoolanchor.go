package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/types"
)

// CandidateFilter is the structured predicate set the matching engine hands
// to storage; it is translated here, never assembled as SQL strings upstream.
type CandidateFilter struct {
	SchoolLevel   *string
	EntryYearFrom *int
	EntryYearTo   *int
}

type SchoolAnchorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) (*types.SchoolAnchor, error)
	Save(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error)
	GetByUserInstitutionLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, institutionID *uuid.UUID, schoolLevel string) (*types.SchoolAnchor, error)
	DemotePrimaryExcept(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exceptAnchorID uuid.UUID) error
	HasPrimary(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)

	// matching
	ListEmbeddedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error)
	ListEmbeddedCandidates(ctx context.Context, tx *gorm.DB, excludeUserID uuid.UUID, filter CandidateFilter) ([]*types.SchoolAnchor, error)

	// reindex
	ListPage(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, offset, limit int) ([]*types.SchoolAnchor, error)
	UpdateEmbeddingsPage(ctx context.Context, updates []AnchorEmbeddingUpdate) error
}

// AnchorEmbeddingUpdate is one reindexed anchor; a page of these commits
// atomically.
type AnchorEmbeddingUpdate struct {
	AnchorID  uuid.UUID
	Embedding pgvector.Vector
}

type schoolAnchorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchoolAnchorRepo(db *gorm.DB, baseLog *logger.Logger) SchoolAnchorRepo {
	return &schoolAnchorRepo{db: db, log: baseLog.With("repo", "SchoolAnchorRepo")}
}

func (sr *schoolAnchorRepo) Create(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) (*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(anchor).Error; err != nil {
		return nil, err
	}
	return anchor, nil
}

func (sr *schoolAnchorRepo) Save(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(anchor).Error
}

func (sr *schoolAnchorRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SchoolAnchor
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Institution").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *schoolAnchorRepo) GetByUserInstitutionLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, institutionID *uuid.UUID, schoolLevel string) (*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("school_level = ?", schoolLevel)
	if institutionID != nil {
		q = q.Where("institution_id = ?", *institutionID)
	} else {
		q = q.Where("institution_id IS NULL")
	}
	var result types.SchoolAnchor
	if err := q.First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *schoolAnchorRepo) DemotePrimaryExcept(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exceptAnchorID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.SchoolAnchor{}).
		Where("user_id = ?", userID).
		Where("id != ?", exceptAnchorID).
		Update("is_primary", false).Error
}

func (sr *schoolAnchorRepo) HasPrimary(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SchoolAnchor{}).
		Where("user_id = ?", userID).
		Where("is_primary = ?", true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *schoolAnchorRepo) ListEmbeddedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SchoolAnchor
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("anchor_embedding IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *schoolAnchorRepo) ListEmbeddedCandidates(ctx context.Context, tx *gorm.DB, excludeUserID uuid.UUID, filter CandidateFilter) ([]*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.SchoolAnchor{}).
		Joins("JOIN users ON users.id = user_school_anchors.user_id").
		Where("user_school_anchors.user_id != ?", excludeUserID).
		Where("user_school_anchors.anchor_embedding IS NOT NULL").
		Where("users.status = ?", types.UserStatusActive).
		Where("users.is_deleted = ?", false).
		Preload("User").
		Preload("Institution")
	if filter.SchoolLevel != nil {
		q = q.Where("user_school_anchors.school_level = ?", *filter.SchoolLevel)
	}
	if filter.EntryYearFrom != nil {
		q = q.Where("user_school_anchors.entry_year >= ?", *filter.EntryYearFrom)
	}
	if filter.EntryYearTo != nil {
		q = q.Where("user_school_anchors.entry_year <= ?", *filter.EntryYearTo)
	}
	var results []*types.SchoolAnchor
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *schoolAnchorRepo) ListPage(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, offset, limit int) ([]*types.SchoolAnchor, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).
		Preload("User").
		Preload("Institution").
		Order("id ASC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var results []*types.SchoolAnchor
	if err := q.Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *schoolAnchorRepo) UpdateEmbeddingsPage(ctx context.Context, updates []AnchorEmbeddingUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return sr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			if err := tx.
				Model(&types.SchoolAnchor{}).
				Where("id = ?", update.AnchorID).
				Update("anchor_embedding", update.Embedding).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
