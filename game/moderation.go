package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wordseek/seekengine/models"
)

// GeneralTopic is the topic id of forum messages sent outside any thread.
const GeneralTopic = "general"

// IsBanned reports whether userID is banned. The daily engine shares it.
func IsBanned(db *gorm.DB, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var n int64
	if err := db.Model(&models.BannedUser{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) Banned(ctx context.Context, userID string) (bool, error) {
	return IsBanned(s.db.WithContext(ctx), userID)
}

// TopicAllowed reports whether a guess sent in topicID counts for chatID's game.
// Chats without configured topics accept every topic.
func (s *SessionStore) TopicAllowed(ctx context.Context, chatID, topicID string) (bool, error) {
	var topics []string
	err := s.db.WithContext(ctx).Model(&models.ChatGameTopic{}).
		Where("chat_id = ?", chatID).
		Pluck("topic_id", &topics).Error
	if err != nil {
		return false, fmt.Errorf("load game topics: %w", err)
	}
	if len(topics) == 0 {
		return true, nil
	}
	for _, t := range topics {
		if t == topicID {
			return true, nil
		}
	}
	return false, nil
}

// BanRequest asks to ban or unban TargetID. Only system admins may.
type BanRequest struct {
	ActorID  string
	TargetID string
}

func (a *Authority) Ban(ctx context.Context, req BanRequest) (*models.BannedUser, error) {
	if !a.IsSystemAdmin(req.ActorID) {
		return nil, ErrPermissionDenied
	}
	row := &models.BannedUser{UserID: req.TargetID, BannedBy: req.ActorID}
	if err := a.db.WithContext(ctx).Create(row).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrAlreadyBanned
		}
		return nil, fmt.Errorf("ban user: %w", err)
	}
	a.log.Info("user banned", zap.String("user_id", req.TargetID), zap.String("by", req.ActorID))
	return row, nil
}

func (a *Authority) Unban(ctx context.Context, req BanRequest) error {
	if !a.IsSystemAdmin(req.ActorID) {
		return ErrPermissionDenied
	}
	res := a.db.WithContext(ctx).Where("user_id = ?", req.TargetID).Delete(&models.BannedUser{})
	if res.Error != nil {
		return fmt.Errorf("unban user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotBanned
	}
	return nil
}

func (a *Authority) Bans(ctx context.Context) ([]models.BannedUser, error) {
	var out []models.BannedUser
	if err := a.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	return out, nil
}

// TopicRequest sets or unsets a forum topic for the chat's game. Chat admins
// and system admins may manage topics.
type TopicRequest struct {
	ChatID    string
	ActorID   string
	ChatAdmin bool
	TopicID   string
}

func (a *Authority) SetTopic(ctx context.Context, req TopicRequest) (*models.ChatGameTopic, error) {
	if err := a.mayManage(GrantRequest{ActorID: req.ActorID, ChatAdmin: req.ChatAdmin}); err != nil {
		return nil, err
	}
	row := &models.ChatGameTopic{ChatID: req.ChatID, TopicID: topicOrGeneral(req.TopicID)}
	if err := a.db.WithContext(ctx).Create(row).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrTopicAlreadySet
		}
		return nil, fmt.Errorf("set game topic: %w", err)
	}
	return row, nil
}

func (a *Authority) UnsetTopic(ctx context.Context, req TopicRequest) error {
	if err := a.mayManage(GrantRequest{ActorID: req.ActorID, ChatAdmin: req.ChatAdmin}); err != nil {
		return err
	}
	res := a.db.WithContext(ctx).
		Where("chat_id = ? AND topic_id = ?", req.ChatID, topicOrGeneral(req.TopicID)).
		Delete(&models.ChatGameTopic{})
	if res.Error != nil {
		return fmt.Errorf("unset game topic: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTopicNotSet
	}
	return nil
}

func (a *Authority) Topics(ctx context.Context, chatID string) ([]models.ChatGameTopic, error) {
	var out []models.ChatGameTopic
	if err := a.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list game topics: %w", err)
	}
	return out, nil
}

func topicOrGeneral(topicID string) string {
	if topicID == "" {
		return GeneralTopic
	}
	return topicID
}
