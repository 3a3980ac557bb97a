package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wordseek/seekengine/cache"
	"github.com/wordseek/seekengine/models"
)

// EndReason names why a game was allowed to end.
type EndReason string

const (
	ReasonPrivate        EndReason = "private"
	ReasonStarter        EndReason = "starter"
	ReasonSystemAdmin    EndReason = "system-admin"
	ReasonGroupAdmin     EndReason = "group-admin"
	ReasonAuthorizedUser EndReason = "authorized-user"
	ReasonQuorum         EndReason = "quorum reached"
)

const (
	DefaultQuorum  = 3
	DefaultVoteTTL = 5 * time.Minute
)

// EndRequest is an end intent as seen by the transport. ChatAdmin is true when
// the transport knows the actor administers the chat.
type EndRequest struct {
	ChatID    string
	UserID    string
	Private   bool
	ChatAdmin bool
}

// Vote is the live end vote of a chat.
type Vote struct {
	ChatID      string    `json:"chat_id"`
	Voters      []string  `json:"voters"`
	Needed      int       `json:"needed"`
	InitiatedAt time.Time `json:"initiated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// EndOutcome reports the effect of an end request or vote. When Ended is
// false, Vote holds the tally so far.
type EndOutcome struct {
	Ended    bool      `json:"ended"`
	Reason   EndReason `json:"reason,omitempty"`
	Solution string    `json:"solution,omitempty"`
	Vote     *Vote     `json:"vote,omitempty"`
}

// Authority decides who may end a chat's game and runs the vote for everybody else.
type Authority struct {
	db     *gorm.DB
	store  *SessionStore
	kv     cache.Store
	admins map[string]struct{}
	quorum int
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthority(db *gorm.DB, store *SessionStore, kv cache.Store, adminUsers []string, quorum int, ttl time.Duration, log *zap.Logger) *Authority {
	if quorum <= 0 {
		quorum = DefaultQuorum
	}
	if ttl <= 0 {
		ttl = DefaultVoteTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	admins := make(map[string]struct{}, len(adminUsers))
	for _, u := range adminUsers {
		admins[u] = struct{}{}
	}
	return &Authority{db: db, store: store, kv: kv, admins: admins, quorum: quorum, ttl: ttl, log: log}
}

// IsSystemAdmin reports whether userID is a configured administrator.
func (a *Authority) IsSystemAdmin(userID string) bool {
	_, ok := a.admins[userID]
	return ok
}

// CanEndImmediately checks, in order: private chat, game starter, system admin,
// chat admin, authorized ender.
func (a *Authority) CanEndImmediately(ctx context.Context, req EndRequest, sess *models.GameSession) (EndReason, bool, error) {
	switch {
	case req.Private:
		return ReasonPrivate, true, nil
	case sess != nil && sess.StartedBy != nil && *sess.StartedBy == req.UserID:
		return ReasonStarter, true, nil
	case a.IsSystemAdmin(req.UserID):
		return ReasonSystemAdmin, true, nil
	case req.ChatAdmin:
		return ReasonGroupAdmin, true, nil
	}
	var n int64
	err := a.db.WithContext(ctx).Model(&models.AuthorizedEnder{}).
		Where("chat_id = ? AND user_id = ?", req.ChatID, req.UserID).
		Count(&n).Error
	if err != nil {
		return "", false, fmt.Errorf("check authorized ender: %w", err)
	}
	if n > 0 {
		return ReasonAuthorizedUser, true, nil
	}
	return "", false, nil
}

// RequestEnd ends the game outright when the actor may, otherwise counts a vote.
func (a *Authority) RequestEnd(ctx context.Context, req EndRequest) (*EndOutcome, error) {
	sess, err := a.store.Active(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	reason, ok, err := a.CanEndImmediately(ctx, req, sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return a.RegisterVote(ctx, req.ChatID, req.UserID)
	}
	return a.end(ctx, req.ChatID, reason)
}

// RegisterVote adds actorID's vote. The vote that reaches quorum ends the game;
// if several do at once only the one whose delete succeeds reports the end.
func (a *Authority) RegisterVote(ctx context.Context, chatID, actorID string) (*EndOutcome, error) {
	if _, err := a.store.Active(ctx, chatID); err != nil {
		return nil, err
	}
	key := cache.EndVoteKey(chatID)
	added, size, err := a.kv.AddToSet(ctx, key, actorID, a.ttl)
	if err != nil {
		return nil, fmt.Errorf("register vote: %w", err)
	}
	if !added {
		return nil, ErrAlreadyVoted
	}
	a.log.Info("end vote", zap.String("chat_id", chatID), zap.String("user_id", actorID), zap.Int64("votes", size))
	if int(size) >= a.quorum {
		return a.end(ctx, chatID, ReasonQuorum)
	}
	vote, err := a.Tally(ctx, chatID)
	if errors.Is(err, ErrVoteExpired) {
		// expired between the add and the read
		vote = &Vote{ChatID: chatID, Voters: []string{actorID}, Needed: a.quorum - 1}
	} else if err != nil {
		return nil, err
	}
	return &EndOutcome{Vote: vote}, nil
}

func (a *Authority) end(ctx context.Context, chatID string, reason EndReason) (*EndOutcome, error) {
	sess, err := a.store.End(ctx, chatID)
	if delErr := a.kv.Delete(ctx, cache.EndVoteKey(chatID)); delErr != nil {
		a.log.Warn("clear end vote failed", zap.String("chat_id", chatID), zap.Error(delErr))
	}
	if err != nil {
		return nil, err
	}
	a.log.Info("game ended", zap.String("chat_id", chatID), zap.String("reason", string(reason)))
	return &EndOutcome{Ended: true, Reason: reason, Solution: sess.Word}, nil
}

// Tally returns the live vote, or ErrVoteExpired when there is none.
func (a *Authority) Tally(ctx context.Context, chatID string) (*Vote, error) {
	members, err := a.kv.SetMembers(ctx, cache.EndVoteKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load vote: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrVoteExpired
	}
	vote := &Vote{ChatID: chatID, Voters: make([]string, 0, len(members))}
	for m := range members {
		vote.Voters = append(vote.Voters, m)
	}
	sort.Slice(vote.Voters, func(i, j int) bool {
		mi, mj := members[vote.Voters[i]], members[vote.Voters[j]]
		if mi != mj {
			return mi < mj
		}
		return vote.Voters[i] < vote.Voters[j]
	})
	first := members[vote.Voters[0]]
	last := members[vote.Voters[len(vote.Voters)-1]]
	vote.InitiatedAt = time.UnixMilli(first)
	vote.ExpiresAt = time.UnixMilli(last).Add(a.ttl)
	if need := a.quorum - len(vote.Voters); need > 0 {
		vote.Needed = need
	}
	return vote, nil
}

// GrantRequest asks to let TargetID end games in ChatID without a vote.
type GrantRequest struct {
	ChatID    string
	ActorID   string
	ChatAdmin bool
	TargetID  string
}

func (a *Authority) mayManage(req GrantRequest) error {
	if req.ChatAdmin || a.IsSystemAdmin(req.ActorID) {
		return nil
	}
	return ErrPermissionDenied
}

func (a *Authority) Grant(ctx context.Context, req GrantRequest) (*models.AuthorizedEnder, error) {
	if err := a.mayManage(req); err != nil {
		return nil, err
	}
	row := &models.AuthorizedEnder{ChatID: req.ChatID, UserID: req.TargetID, GrantedBy: req.ActorID}
	if err := a.db.WithContext(ctx).Create(row).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrAlreadyAuthorized
		}
		return nil, fmt.Errorf("grant ender: %w", err)
	}
	return row, nil
}

func (a *Authority) Revoke(ctx context.Context, req GrantRequest) error {
	if err := a.mayManage(req); err != nil {
		return err
	}
	res := a.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", req.ChatID, req.TargetID).
		Delete(&models.AuthorizedEnder{})
	if res.Error != nil {
		return fmt.Errorf("revoke ender: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotAuthorized
	}
	return nil
}

func (a *Authority) List(ctx context.Context, chatID string) ([]models.AuthorizedEnder, error) {
	var out []models.AuthorizedEnder
	if err := a.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list enders: %w", err)
	}
	return out, nil
}
