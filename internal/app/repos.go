package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	Institution  repos.InstitutionRepo
	SchoolAnchor repos.SchoolAnchorRepo
	UserKeyword  repos.UserKeywordRepo
	UserBlock    repos.UserBlockRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Institution:  repos.NewInstitutionRepo(db, log),
		SchoolAnchor: repos.NewSchoolAnchorRepo(db, log),
		UserKeyword:  repos.NewUserKeywordRepo(db, log),
		UserBlock:    repos.NewUserBlockRepo(db, log),
	}
}
