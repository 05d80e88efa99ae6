package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

type SchoolAnchorInput struct {
	InstitutionID  *uuid.UUID
	SchoolLevel    string
	EntryYear      *int
	GraduationYear *int
	IsPrimary      bool
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)

	UpsertSchoolAnchor(ctx context.Context, userID uuid.UUID, input SchoolAnchorInput) (*types.SchoolAnchor, error)
	ListSchoolAnchors(ctx context.Context, userID uuid.UUID) ([]*types.SchoolAnchor, error)

	AddKeyword(ctx context.Context, userID uuid.UUID, keyword string, weight int) (*types.UserKeyword, error)
	ListKeywords(ctx context.Context, userID uuid.UUID) ([]*types.UserKeyword, error)

	BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error
	UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	anchorRepo  repos.SchoolAnchorRepo
	keywordRepo repos.UserKeywordRepo
	blockRepo   repos.UserBlockRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, anchorRepo repos.SchoolAnchorRepo, keywordRepo repos.UserKeywordRepo, blockRepo repos.UserBlockRepo) UserService {
	return &userService{
		db:          db,
		log:         log.With("service", "UserService"),
		userRepo:    userRepo,
		anchorRepo:  anchorRepo,
		keywordRepo: keywordRepo,
		blockRepo:   blockRepo,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return user, nil
}

// UpsertSchoolAnchor creates or updates the anchor for (user, institution,
// level). Any change clears the stored embedding; the reindex job repopulates
// it. Exactly one anchor per user stays primary, enforced here rather than by
// a DB constraint.
func (us *userService) UpsertSchoolAnchor(ctx context.Context, userID uuid.UUID, input SchoolAnchorInput) (*types.SchoolAnchor, error) {
	if !types.ValidSchoolLevel(input.SchoolLevel) {
		return nil, fmt.Errorf("invalid school_level %q", input.SchoolLevel)
	}
	if input.EntryYear != nil && input.GraduationYear != nil && *input.EntryYear > *input.GraduationYear {
		return nil, fmt.Errorf("entry_year must not be greater than graduation_year")
	}

	var out *types.SchoolAnchor
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := us.anchorRepo.GetByUserInstitutionLevel(ctx, tx, userID, input.InstitutionID, input.SchoolLevel)
		if err != nil {
			return err
		}

		if existing != nil {
			existing.EntryYear = input.EntryYear
			existing.GraduationYear = input.GraduationYear
			existing.IsPrimary = existing.IsPrimary || input.IsPrimary
			existing.AnchorEmbedding = nil
			if err := us.anchorRepo.Save(ctx, tx, existing); err != nil {
				return err
			}
			out = existing
		} else {
			created, err := us.anchorRepo.Create(ctx, tx, &types.SchoolAnchor{
				UserID:         userID,
				InstitutionID:  input.InstitutionID,
				SchoolLevel:    input.SchoolLevel,
				EntryYear:      input.EntryYear,
				GraduationYear: input.GraduationYear,
				IsPrimary:      input.IsPrimary,
			})
			if err != nil {
				return err
			}
			out = created
		}

		if input.IsPrimary {
			if err := us.anchorRepo.DemotePrimaryExcept(ctx, tx, userID, out.ID); err != nil {
				return err
			}
			return nil
		}

		// A user must not end up with zero primaries.
		hasPrimary, err := us.anchorRepo.HasPrimary(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !hasPrimary {
			out.IsPrimary = true
			if err := us.anchorRepo.Save(ctx, tx, out); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		us.log.Warn("UpsertSchoolAnchor transaction error", "user_id", userID.String(), "error", err)
		return nil, err
	}
	return out, nil
}

func (us *userService) ListSchoolAnchors(ctx context.Context, userID uuid.UUID) ([]*types.SchoolAnchor, error) {
	return us.anchorRepo.ListByUser(ctx, nil, userID)
}

func (us *userService) AddKeyword(ctx context.Context, userID uuid.UUID, keyword string, weight int) (*types.UserKeyword, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if weight <= 0 {
		weight = 1
	}
	return us.keywordRepo.Create(ctx, nil, &types.UserKeyword{
		UserID:  userID,
		Keyword: keyword,
		Weight:  weight,
	})
}

func (us *userService) ListKeywords(ctx context.Context, userID uuid.UUID) ([]*types.UserKeyword, error) {
	return us.keywordRepo.ListByUser(ctx, nil, userID)
}

func (us *userService) BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return fmt.Errorf("cannot block yourself")
	}
	target, err := us.userRepo.GetByID(ctx, nil, blockedID)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("user not found")
	}
	_, err = us.blockRepo.Create(ctx, nil, &types.UserBlock{
		BlockerID: blockerID,
		BlockedID: blockedID,
	})
	return err
}

func (us *userService) UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	return us.blockRepo.Delete(ctx, nil, blockerID, blockedID)
}
