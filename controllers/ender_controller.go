package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/utils"
)

// EnderController manages users allowed to end a chat's games without a vote.
type EnderController struct {
	authority *game.Authority
}

func NewEnderController(authority *game.Authority) *EnderController {
	return &EnderController{authority: authority}
}

type enderRequest struct {
	ActorID     string `json:"actor_id" binding:"required"`
	UserID      string `json:"user_id"`
	IsChatAdmin bool   `json:"is_chat_admin"`
}

func (e *EnderController) List(ctx *gin.Context) {
	list, err := e.authority.List(ctx.Request.Context(), ctx.Param("chatId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, list)
}

func (e *EnderController) Grant(ctx *gin.Context) {
	var req enderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if req.UserID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "user_id is required")
		return
	}
	row, err := e.authority.Grant(ctx.Request.Context(), game.GrantRequest{
		ChatID:    ctx.Param("chatId"),
		ActorID:   req.ActorID,
		ChatAdmin: req.IsChatAdmin,
		TargetID:  req.UserID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "authorized", row)
}

func (e *EnderController) Revoke(ctx *gin.Context) {
	var req enderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	err := e.authority.Revoke(ctx.Request.Context(), game.GrantRequest{
		ChatID:    ctx.Param("chatId"),
		ActorID:   req.ActorID,
		ChatAdmin: req.IsChatAdmin,
		TargetID:  ctx.Param("userId"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"user_id": ctx.Param("userId")})
}
