package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/utils"
)

// ModerationController manages bans and a forum chat's game topics.
type ModerationController struct {
	authority *game.Authority
}

func NewModerationController(authority *game.Authority) *ModerationController {
	return &ModerationController{authority: authority}
}

type banRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	UserID  string `json:"user_id"`
}

type topicRequest struct {
	ActorID     string `json:"actor_id" binding:"required"`
	IsChatAdmin bool   `json:"is_chat_admin"`
	TopicID     string `json:"topic_id"`
}

func (m *ModerationController) ListBans(ctx *gin.Context) {
	bans, err := m.authority.Bans(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, bans)
}

// Ban stops a user from playing. Only configured admins may ban.
func (m *ModerationController) Ban(ctx *gin.Context) {
	var req banRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if req.UserID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "user_id is required")
		return
	}
	row, err := m.authority.Ban(ctx.Request.Context(), game.BanRequest{ActorID: req.ActorID, TargetID: req.UserID})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "banned", row)
}

func (m *ModerationController) Unban(ctx *gin.Context) {
	var req banRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	err := m.authority.Unban(ctx.Request.Context(), game.BanRequest{ActorID: req.ActorID, TargetID: ctx.Param("userId")})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"user_id": ctx.Param("userId")})
}

func (m *ModerationController) ListTopics(ctx *gin.Context) {
	topics, err := m.authority.Topics(ctx.Request.Context(), ctx.Param("chatId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, topics)
}

// SetTopic limits the chat's game to a forum topic; an empty topic_id means
// the general topic.
func (m *ModerationController) SetTopic(ctx *gin.Context) {
	var req topicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	row, err := m.authority.SetTopic(ctx.Request.Context(), game.TopicRequest{
		ChatID:    ctx.Param("chatId"),
		ActorID:   req.ActorID,
		ChatAdmin: req.IsChatAdmin,
		TopicID:   req.TopicID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "topic set", row)
}

func (m *ModerationController) UnsetTopic(ctx *gin.Context) {
	var req topicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	err := m.authority.UnsetTopic(ctx.Request.Context(), game.TopicRequest{
		ChatID:    ctx.Param("chatId"),
		ActorID:   req.ActorID,
		ChatAdmin: req.IsChatAdmin,
		TopicID:   ctx.Param("topicId"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"topic_id": ctx.Param("topicId")})
}
