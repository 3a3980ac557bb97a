package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wordseek/seekengine/daily"
	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/metrics"
	"github.com/wordseek/seekengine/utils"
)

// DailyController serves the per-user daily puzzle.
type DailyController struct {
	daily *daily.Engine
}

func NewDailyController(engine *daily.Engine) *DailyController {
	return &DailyController{daily: engine}
}

type dailyGuessRequest struct {
	Guess string `json:"guess" binding:"required"`
}

// Today returns the current puzzle without its word.
func (d *DailyController) Today(ctx *gin.Context) {
	p, err := d.daily.EnsurePuzzle(ctx.Request.Context(), d.daily.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"day_number":   p.DayNumber,
		"date":         p.Date,
		"max_attempts": d.daily.MaxAttempts(),
	})
}

func (d *DailyController) Start(ctx *gin.Context) {
	sess, err := d.daily.Start(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, sess)
}

func (d *DailyController) Pause(ctx *gin.Context) {
	if err := d.daily.Pause(ctx.Request.Context(), ctx.Param("userId")); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"paused": true})
}

func (d *DailyController) InProgress(ctx *gin.Context) {
	sess, err := d.daily.InProgress(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, sess)
}

// Guess submits one attempt at today's puzzle.
func (d *DailyController) Guess(ctx *gin.Context) {
	var req dailyGuessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	out, err := d.daily.SubmitGuess(ctx.Request.Context(), ctx.Param("userId"), req.Guess)
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, game.ErrInvalidWord):
			result = "invalid"
		case errors.Is(err, game.ErrDuplicateGuess):
			result = "duplicate"
		case errors.Is(err, game.ErrBanned):
			result = "banned"
		}
		metrics.Guesses.WithLabelValues("daily", result).Inc()
		respondError(ctx, err)
		return
	}
	metrics.Guesses.WithLabelValues("daily", string(out.Status)).Inc()
	utils.Success(ctx, out)
}

func (d *DailyController) Streak(ctx *gin.Context) {
	s, err := d.daily.Streak(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, s)
}
