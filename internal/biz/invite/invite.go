package invite

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yola1107/conquian/internal/biz/presence"
	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
)

// TokenTTL 游客邀请令牌有效期
const TokenTTL = 30 * time.Minute

// Token 游客邀请令牌. 一次性: 校验通过即作废.
type Token struct {
	ID        string
	Email     string
	RoomCode  string
	CreatedAt time.Time
	used      bool
}

// Registry 邀请令牌登记表.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]*Token

	now func() time.Time // 测试注入
}

func NewRegistry() *Registry {
	return &Registry{
		tokens: make(map[string]*Token),
		now:    time.Now,
	}
}

// CreateToken 为指定邮箱签发进入 roomCode 的游客令牌.
// 每个邮箱同时只有一张有效令牌, 重复邀请会作废旧令牌.
func (r *Registry) CreateToken(email, roomCode string) *Token {
	t := &Token{
		ID:        uuid.NewString(),
		Email:     email,
		RoomCode:  roomCode,
		CreatedAt: r.now(),
	}
	r.mu.Lock()
	for id, old := range r.tokens {
		if old.Email == email {
			delete(r.tokens, id)
		}
	}
	r.tokens[t.ID] = t
	r.mu.Unlock()
	return t
}

// Validate 校验并消耗令牌.
// 过期令牌在此处顺带清除; 已消耗的令牌再次校验会被拒绝.
func (r *Registry) Validate(tokenID string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok {
		return nil, codes.ErrorNotFound("invitation %s does not exist", tokenID)
	}
	if t.used {
		return nil, codes.ErrorGuestInviteUsed("invitation %s was already used", tokenID)
	}
	if r.now().Sub(t.CreatedAt) > TokenTTL {
		delete(r.tokens, tokenID)
		return nil, codes.ErrorValidationFailed("invitation %s expired", tokenID)
	}
	t.used = true
	return t, nil
}

// Revoke 撤销房间尚未消耗的全部令牌, 房间关闭时调用.
func (r *Registry) Revoke(roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.RoomCode == roomCode {
			delete(r.tokens, id)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// InviteRegistered 给注册玩家发房间邀请.
// 仅空闲在线的玩家可被邀请: 离线/在局/在厅分别拒绝.
func InviteRegistered(fromID, toID int64, roomCode string, status presence.Status, sink push.Sink) error {
	switch status {
	case presence.StatusOffline:
		return codes.ErrorUserOffline("player %d is offline", toID)
	case presence.StatusInGame:
		return codes.ErrorUserInGame("player %d is in a match", toID)
	case presence.StatusInLobby:
		return codes.ErrorUserInLobby("player %d is in a lobby", toID)
	}
	if sink == nil {
		return codes.ErrorUserOffline("player %d is offline", toID)
	}
	return sink.InvitationReceived(fromID, roomCode)
}
