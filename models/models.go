package models

// All lists every table the engine needs, in migration order.
func All() []interface{} {
	return []interface{}{
		&GameSession{},
		&GuessRecord{},
		&UsedWord{},
		&AuthorizedEnder{},
		&BannedUser{},
		&ChatGameTopic{},
		&DailyPuzzle{},
		&DailyAttempt{},
		&UserStreak{},
		&ScoreEntry{},
	}
}
