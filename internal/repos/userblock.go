package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/types"
)

type UserBlockRepo interface {
	Create(ctx context.Context, tx *gorm.DB, block *types.UserBlock) (*types.UserBlock, error)
	Delete(ctx context.Context, tx *gorm.DB, blockerID, blockedID uuid.UUID) error
	// ListBlockedUserIDs returns every user the given user blocks or is
	// blocked by. Matching excludes the whole set.
	ListBlockedUserIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type userBlockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBlockRepo(db *gorm.DB, baseLog *logger.Logger) UserBlockRepo {
	return &userBlockRepo{db: db, log: baseLog.With("repo", "UserBlockRepo")}
}

func (br *userBlockRepo) Create(ctx context.Context, tx *gorm.DB, block *types.UserBlock) (*types.UserBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).Create(block).Error; err != nil {
		return nil, err
	}
	return block, nil
}

func (br *userBlockRepo) Delete(ctx context.Context, tx *gorm.DB, blockerID, blockedID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&types.UserBlock{}).Error
}

func (br *userBlockRepo) ListBlockedUserIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var rows []*types.UserBlock
	if err := transaction.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]struct{}, len(rows))
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		other := row.BlockedID
		if other == userID {
			other = row.BlockerID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out, nil
}
