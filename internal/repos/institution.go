package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/types"
)

type InstitutionRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) (*types.Institution, error)
	Search(ctx context.Context, tx *gorm.DB, query, city, district string, limit int) ([]*types.Institution, error)
}

type institutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return &institutionRepo{db: db, log: baseLog.With("repo", "InstitutionRepo")}
}

func (ir *institutionRepo) GetByID(ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) (*types.Institution, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Institution
	if err := transaction.WithContext(ctx).
		Where("id = ?", institutionID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ir *institutionRepo) Search(ctx context.Context, tx *gorm.DB, query, city, district string, limit int) ([]*types.Institution, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Institution{}).
		Where("is_active = ?", true)
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	if city != "" {
		q = q.Where("region_city = ?", city)
	}
	if district != "" {
		q = q.Where("region_district = ?", district)
	}
	var results []*types.Institution
	if err := q.Order("name ASC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
