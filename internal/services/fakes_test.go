package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeSchoolAnchorRepo struct {
	mine       []*types.SchoolAnchor
	candidates []*types.SchoolAnchor
	pages      [][]*types.SchoolAnchor

	listEmbeddedByUserErr     error
	listEmbeddedCandidatesErr error
	listPageErr               error
	updateEmbeddingsPageErr   error

	listEmbeddedByUserCalls int
	lastCandidateFilter     repos.CandidateFilter
	pageCalls               int
	written                 [][]repos.AnchorEmbeddingUpdate
}

func (f *fakeSchoolAnchorRepo) Create(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) (*types.SchoolAnchor, error) {
	return anchor, nil
}

func (f *fakeSchoolAnchorRepo) Save(ctx context.Context, tx *gorm.DB, anchor *types.SchoolAnchor) error {
	return nil
}

func (f *fakeSchoolAnchorRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error) {
	return f.mine, nil
}

func (f *fakeSchoolAnchorRepo) GetByUserInstitutionLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, institutionID *uuid.UUID, schoolLevel string) (*types.SchoolAnchor, error) {
	return nil, nil
}

func (f *fakeSchoolAnchorRepo) DemotePrimaryExcept(ctx context.Context, tx *gorm.DB, userID uuid.UUID, exceptAnchorID uuid.UUID) error {
	return nil
}

func (f *fakeSchoolAnchorRepo) HasPrimary(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeSchoolAnchorRepo) ListEmbeddedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SchoolAnchor, error) {
	f.listEmbeddedByUserCalls++
	if f.listEmbeddedByUserErr != nil {
		return nil, f.listEmbeddedByUserErr
	}
	return f.mine, nil
}

func (f *fakeSchoolAnchorRepo) ListEmbeddedCandidates(ctx context.Context, tx *gorm.DB, excludeUserID uuid.UUID, filter repos.CandidateFilter) ([]*types.SchoolAnchor, error) {
	if f.listEmbeddedCandidatesErr != nil {
		return nil, f.listEmbeddedCandidatesErr
	}
	f.lastCandidateFilter = filter
	return f.candidates, nil
}

func (f *fakeSchoolAnchorRepo) ListPage(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, offset, limit int) ([]*types.SchoolAnchor, error) {
	if f.listPageErr != nil {
		return nil, f.listPageErr
	}
	if f.pageCalls >= len(f.pages) {
		return nil, nil
	}
	page := f.pages[f.pageCalls]
	f.pageCalls++
	return page, nil
}

func (f *fakeSchoolAnchorRepo) UpdateEmbeddingsPage(ctx context.Context, updates []repos.AnchorEmbeddingUpdate) error {
	if f.updateEmbeddingsPageErr != nil {
		return f.updateEmbeddingsPageErr
	}
	f.written = append(f.written, updates)
	return nil
}

type fakeUserBlockRepo struct {
	blockedIDs []uuid.UUID
	err        error
}

func (f *fakeUserBlockRepo) Create(ctx context.Context, tx *gorm.DB, block *types.UserBlock) (*types.UserBlock, error) {
	return block, nil
}

func (f *fakeUserBlockRepo) Delete(ctx context.Context, tx *gorm.DB, blockerID, blockedID uuid.UUID) error {
	return nil
}

func (f *fakeUserBlockRepo) ListBlockedUserIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.blockedIDs, nil
}

type fakeUserRepo struct {
	users   map[uuid.UUID]*types.User
	byEmail map[string]*types.User
	err     error
	created []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeUserKeywordRepo struct {
	keywords map[uuid.UUID][]*types.UserKeyword
	err      error
}

func (f *fakeUserKeywordRepo) Create(ctx context.Context, tx *gorm.DB, keyword *types.UserKeyword) (*types.UserKeyword, error) {
	return keyword, nil
}

func (f *fakeUserKeywordRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserKeyword, error) {
	return f.keywords[userID], nil
}

func (f *fakeUserKeywordRepo) TopByWeight(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserKeyword, error) {
	if f.err != nil {
		return nil, f.err
	}
	kws := f.keywords[userID]
	if len(kws) > limit {
		kws = kws[:limit]
	}
	return kws, nil
}

type fakeEmbedder struct {
	dim      int
	err      error
	failFrom int
	calls    int
	inputs   [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	f.inputs = append(f.inputs, inputs)
	if f.err != nil && (f.failFrom == 0 || f.calls >= f.failFrom) {
		return nil, f.err
	}
	dim := f.dim
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		vec := make([]float32, dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

// fakeGenerator must be safe for concurrent calls: enrichment fans out.
type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	failOn  map[string]bool
	prompts []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, user)
	for needle := range f.failOn {
		if needle != "" && strings.Contains(user, needle) {
			return "", f.err
		}
	}
	if f.err != nil && len(f.failOn) == 0 {
		return "", f.err
	}
	return f.text, nil
}
