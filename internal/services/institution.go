package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

type InstitutionService interface {
	Search(ctx context.Context, query, city, district string, limit int) ([]*types.Institution, error)
}

type institutionService struct {
	db              *gorm.DB
	log             *logger.Logger
	institutionRepo repos.InstitutionRepo
}

func NewInstitutionService(db *gorm.DB, log *logger.Logger, institutionRepo repos.InstitutionRepo) InstitutionService {
	return &institutionService{
		db:              db,
		log:             log.With("service", "InstitutionService"),
		institutionRepo: institutionRepo,
	}
}

func (is *institutionService) Search(ctx context.Context, query, city, district string, limit int) ([]*types.Institution, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return is.institutionRepo.Search(ctx, nil, query, city, district, limit)
}
