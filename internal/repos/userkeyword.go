package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/types"
)

type UserKeywordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, keyword *types.UserKeyword) (*types.UserKeyword, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserKeyword, error)
	TopByWeight(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserKeyword, error)
}

type userKeywordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserKeywordRepo(db *gorm.DB, baseLog *logger.Logger) UserKeywordRepo {
	return &userKeywordRepo{db: db, log: baseLog.With("repo", "UserKeywordRepo")}
}

func (kr *userKeywordRepo) Create(ctx context.Context, tx *gorm.DB, keyword *types.UserKeyword) (*types.UserKeyword, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	if err := transaction.WithContext(ctx).Create(keyword).Error; err != nil {
		return nil, err
	}
	return keyword, nil
}

func (kr *userKeywordRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserKeyword, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var results []*types.UserKeyword
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weight DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (kr *userKeywordRepo) TopByWeight(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserKeyword, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var results []*types.UserKeyword
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("weight DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
