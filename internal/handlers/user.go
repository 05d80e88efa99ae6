package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/intersection-backend/internal/requestdata"
	"github.com/yungbote/intersection-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "user_not_found", err)
		return
	}
	RespondOK(c, user)
}

type schoolAnchorRequest struct {
	InstitutionID  *uuid.UUID `json:"institution_id"`
	SchoolLevel    string     `json:"school_level" binding:"required"`
	EntryYear      *int       `json:"entry_year"`
	GraduationYear *int       `json:"graduation_year"`
	IsPrimary      bool       `json:"is_primary"`
}

func (h *UserHandler) UpsertSchoolAnchor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req schoolAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	anchor, err := h.userService.UpsertSchoolAnchor(c.Request.Context(), userID, services.SchoolAnchorInput{
		InstitutionID:  req.InstitutionID,
		SchoolLevel:    req.SchoolLevel,
		EntryYear:      req.EntryYear,
		GraduationYear: req.GraduationYear,
		IsPrimary:      req.IsPrimary,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "anchor_upsert_failed", err)
		return
	}
	c.JSON(http.StatusCreated, anchor)
}

func (h *UserHandler) ListSchoolAnchors(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	anchors, err := h.userService.ListSchoolAnchors(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "anchor_list_failed", err)
		return
	}
	RespondOK(c, anchors)
}

type keywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Weight  int    `json:"weight"`
}

func (h *UserHandler) AddKeyword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	keyword, err := h.userService.AddKeyword(c.Request.Context(), userID, req.Keyword, req.Weight)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "keyword_add_failed", err)
		return
	}
	c.JSON(http.StatusCreated, keyword)
}

func (h *UserHandler) ListKeywords(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	keywords, err := h.userService.ListKeywords(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "keyword_list_failed", err)
		return
	}
	RespondOK(c, keywords)
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	if err := h.userService.BlockUser(c.Request.Context(), userID, targetID); err != nil {
		RespondError(c, http.StatusBadRequest, "block_failed", err)
		return
	}
	RespondOK(c, gin.H{"blocked": targetID})
}

func (h *UserHandler) UnblockUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	if err := h.userService.UnblockUser(c.Request.Context(), userID, targetID); err != nil {
		RespondError(c, http.StatusBadRequest, "unblock_failed", err)
		return
	}
	RespondOK(c, gin.H{"unblocked": targetID})
}
