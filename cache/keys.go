package cache

// EndVoteKey holds the end-game vote of a chat.
func EndVoteKey(chatID string) string { return "endvote:" + chatID }

// DailyMarkerKey marks a user as currently playing the daily puzzle.
func DailyMarkerKey(userID string) string { return "daily:" + userID }
