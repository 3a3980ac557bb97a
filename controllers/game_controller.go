package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/metrics"
	"github.com/wordseek/seekengine/utils"
)

// GameController serves the regular per-chat game.
type GameController struct {
	games     *game.Engine
	authority *game.Authority
}

func NewGameController(games *game.Engine, authority *game.Authority) *GameController {
	return &GameController{games: games, authority: authority}
}

type startGameRequest struct {
	UserID   string `json:"user_id"`
	ChatType string `json:"chat_type"`
}

type guessRequest struct {
	UserID    string `json:"user_id"`
	Guess     string `json:"guess" binding:"required"`
	Anonymous bool   `json:"anonymous"`
	TopicID   string `json:"topic_id"`
}

type endRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	ChatType    string `json:"chat_type"`
	IsChatAdmin bool   `json:"is_chat_admin"`
}

func isPrivate(chatType string) bool { return chatType == "private" }

// StartGame opens a new round in the chat.
func (g *GameController) StartGame(ctx *gin.Context) {
	var req startGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	sess, err := g.games.StartGame(ctx.Request.Context(), game.StartRequest{
		ChatID:  ctx.Param("chatId"),
		UserID:  req.UserID,
		Private: isPrivate(req.ChatType),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	metrics.GamesStarted.Inc()
	utils.Respond(ctx, http.StatusCreated, 0, "game started", sess)
}

// Status reports the chat's current game.
func (g *GameController) Status(ctx *gin.Context) {
	st, err := g.games.Status(ctx.Request.Context(), ctx.Param("chatId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, st)
}

// Guess evaluates a guess.
func (g *GameController) Guess(ctx *gin.Context) {
	var req guessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	out, err := g.games.Guess(ctx.Request.Context(), game.GuessRequest{
		ChatID:    ctx.Param("chatId"),
		UserID:    req.UserID,
		Guess:     req.Guess,
		Anonymous: req.Anonymous,
		TopicID:   req.TopicID,
	})
	if err != nil {
		metrics.Guesses.WithLabelValues("regular", guessErrorLabel(err)).Inc()
		respondError(ctx, err)
		return
	}
	metrics.Guesses.WithLabelValues("regular", string(out.Status)).Inc()
	switch out.Status {
	case game.StatusWon:
		metrics.GamesEnded.WithLabelValues("won").Inc()
	case game.StatusGameOver:
		metrics.GamesEnded.WithLabelValues("cap").Inc()
	}
	utils.Success(ctx, out)
}

func guessErrorLabel(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidWord):
		return "invalid"
	case errors.Is(err, game.ErrDuplicateGuess):
		return "duplicate"
	case errors.Is(err, game.ErrNoActiveGame):
		return "no_game"
	case errors.Is(err, game.ErrBanned):
		return "banned"
	default:
		return "error"
	}
}

// End handles an end intent: immediate end for privileged actors, a vote otherwise.
func (g *GameController) End(ctx *gin.Context) {
	var req endRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	out, err := g.authority.RequestEnd(ctx.Request.Context(), game.EndRequest{
		ChatID:    ctx.Param("chatId"),
		UserID:    req.UserID,
		Private:   isPrivate(req.ChatType),
		ChatAdmin: req.IsChatAdmin,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	if out.Ended {
		metrics.GamesEnded.WithLabelValues(string(out.Reason)).Inc()
	}
	if out.Reason == game.ReasonQuorum || !out.Ended {
		metrics.EndVotes.Inc()
	}
	utils.Success(ctx, out)
}

// Votes returns the live end vote.
func (g *GameController) Votes(ctx *gin.Context) {
	vote, err := g.authority.Tally(ctx.Request.Context(), ctx.Param("chatId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, vote)
}
