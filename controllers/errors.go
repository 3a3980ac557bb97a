package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wordseek/seekengine/daily"
	"github.com/wordseek/seekengine/game"
	"github.com/wordseek/seekengine/utils"
)

type apiError struct {
	status int
	code   int
}

// errorTable maps engine sentinels to HTTP status and envelope code. Order
// matters only for errors that wrap others.
var errorTable = []struct {
	err error
	apiError
}{
	{game.ErrInvalidWord, apiError{http.StatusBadRequest, 40010}},
	{game.ErrPermissionDenied, apiError{http.StatusForbidden, 40310}},
	{game.ErrBanned, apiError{http.StatusForbidden, 40311}},
	{game.ErrNoActiveGame, apiError{http.StatusNotFound, 40410}},
	{game.ErrVoteExpired, apiError{http.StatusNotFound, 40411}},
	{game.ErrNotAuthorized, apiError{http.StatusNotFound, 40412}},
	{daily.ErrNotPlaying, apiError{http.StatusNotFound, 40413}},
	{game.ErrNotBanned, apiError{http.StatusNotFound, 40414}},
	{game.ErrTopicNotSet, apiError{http.StatusNotFound, 40415}},
	{game.ErrDuplicateGuess, apiError{http.StatusConflict, 40910}},
	{game.ErrAlreadyActive, apiError{http.StatusConflict, 40911}},
	{game.ErrAlreadyVoted, apiError{http.StatusConflict, 40912}},
	{game.ErrAlreadyAuthorized, apiError{http.StatusConflict, 40913}},
	{game.ErrDailyInProgress, apiError{http.StatusConflict, 40914}},
	{daily.ErrRegularGameActive, apiError{http.StatusConflict, 40915}},
	{daily.ErrAlreadySolved, apiError{http.StatusConflict, 40916}},
	{game.ErrWrongTopic, apiError{http.StatusConflict, 40917}},
	{game.ErrAlreadyBanned, apiError{http.StatusConflict, 40918}},
	{game.ErrTopicAlreadySet, apiError{http.StatusConflict, 40919}},
	{game.ErrAttemptLimitExceeded, apiError{http.StatusConflict, 40920}},
	{daily.ErrDailyExpired, apiError{http.StatusGone, 41010}},
	{daily.ErrNoPuzzle, apiError{http.StatusServiceUnavailable, 50310}},
}

// respondError writes the envelope for err. Unknown errors are logged and
// reported as 500 without detail.
func respondError(ctx *gin.Context, err error) {
	var limit *daily.AttemptLimitError
	if errors.As(err, &limit) {
		utils.ErrorWithData(ctx, http.StatusConflict, 40920, err.Error(), gin.H{"solution": limit.Solution})
		return
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			utils.Error(ctx, e.status, e.code, e.err.Error())
			return
		}
	}
	_ = ctx.Error(err)
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
}

func bindError(ctx *gin.Context, err error) {
	utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body: "+err.Error())
}
