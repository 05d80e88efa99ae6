package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/services"
	"github.com/yungbote/intersection-backend/internal/types"
)

// InternalHandler exposes out-of-band operational endpoints. They are not
// part of the public API surface and are expected to be reachable only from
// inside the deployment network.
type InternalHandler struct {
	log                *logger.Logger
	indexService       services.AnchorIndexService
	embedder           services.TextEmbedder
	explanationService services.ExplanationService
	reindexPageSize    int
}

func NewInternalHandler(log *logger.Logger, indexService services.AnchorIndexService, embedder services.TextEmbedder, explanationService services.ExplanationService, reindexPageSize int) *InternalHandler {
	return &InternalHandler{
		log:                log.With("handler", "InternalHandler"),
		indexService:       indexService,
		embedder:           embedder,
		explanationService: explanationService,
		reindexPageSize:    reindexPageSize,
	}
}

type reindexRequest struct {
	UserID *string `json:"user_id"`
}

func (h *InternalHandler) ReindexSchoolAnchors(c *gin.Context) {
	var req reindexRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var userID *uuid.UUID
	if req.UserID != nil && *req.UserID != "" {
		parsed, err := uuid.Parse(*req.UserID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("user_id is not a valid uuid"))
			return
		}
		userID = &parsed
	}

	updated, err := h.indexService.ReindexAnchors(c.Request.Context(), userID, h.reindexPageSize)
	if err != nil {
		h.log.Error("Anchor reindex failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "reindex_failed", err)
		return
	}
	RespondOK(c, gin.H{"updated": updated})
}

type testEmbeddingRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *InternalHandler) TestEmbedding(c *gin.Context) {
	var req testEmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	vectors, err := h.embedder.Embed(c.Request.Context(), []string{req.Text})
	if err != nil {
		RespondError(c, http.StatusBadGateway, "embedding_failed", err)
		return
	}
	if len(vectors) == 0 {
		RespondError(c, http.StatusBadGateway, "embedding_failed", fmt.Errorf("provider returned no vectors"))
		return
	}

	vec := vectors[0]
	preview := vec
	if len(preview) > 8 {
		preview = preview[:8]
	}
	RespondOK(c, gin.H{"dim": len(vec), "preview": preview})
}

type testExplanationRequest struct {
	MeNickname        string   `json:"me_nickname" binding:"required"`
	CandidateNickname string   `json:"candidate_nickname" binding:"required"`
	Overlaps          []string `json:"overlaps"`
	ExtraHint         *string  `json:"extra_hint"`
}

func (h *InternalHandler) TestMatchExplanation(c *gin.Context) {
	var req testExplanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	candidate := &types.MatchCandidate{
		CandidateUserID:   uuid.New(),
		CandidateNickname: req.CandidateNickname,
		OverlapFragments:  req.Overlaps,
		ExtraHint:         req.ExtraHint,
	}
	explanation, err := h.explanationService.GenerateOne(c.Request.Context(), req.MeNickname, candidate)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "explanation_failed", err)
		return
	}
	RespondOK(c, gin.H{"explanation": explanation})
}
