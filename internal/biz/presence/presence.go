package presence

import (
	"context"
	"sync"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/kratos/v2/log"
)

/*
	在线状态与好友通知. 注册玩家上线时订阅一个 Sink,
	状态变化按好友关系扇出; 推送失败视为断开, 立即摘除该 Sink.
*/

type Status int32

const (
	StatusOffline Status = iota
	StatusOnline
	StatusInLobby
	StatusInGame
)

// PlayerSummary 注册玩家的档案摘要
type PlayerSummary struct {
	ID        int64
	Nickname  string
	PhotoPath string
}

// Directory 注册玩家档案与好友关系的只读来源.
type Directory interface {
	Player(ctx context.Context, playerID int64) (*PlayerSummary, error)
	Friends(ctx context.Context, playerID int64) ([]int64, error)
}

// Locator 查询玩家当前所在的大厅/对局, 由上层注入.
type Locator struct {
	InLobby func(playerID int64) bool
	InGame  func(playerID int64) bool
}

type Registry struct {
	mu      sync.RWMutex
	sinks   map[int64]push.Sink
	dir     Directory
	locator Locator
}

func NewRegistry(dir Directory, locator Locator) *Registry {
	return &Registry{
		sinks:   make(map[int64]push.Sink),
		dir:     dir,
		locator: locator,
	}
}

// Subscribe 绑定玩家的推送通道. 重复订阅以最新连接为准.
func (r *Registry) Subscribe(playerID int64, sink push.Sink) {
	r.mu.Lock()
	r.sinks[playerID] = sink
	r.mu.Unlock()
}

func (r *Registry) Unsubscribe(playerID int64) {
	r.mu.Lock()
	delete(r.sinks, playerID)
	r.mu.Unlock()
}

// Sink 返回玩家的推送通道, 离线返回 nil.
func (r *Registry) Sink(playerID int64) push.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sinks[playerID]
}

func (r *Registry) Online(playerID int64) bool {
	return r.Sink(playerID) != nil
}

// Status 玩家当前状态. 对局优先于大厅.
func (r *Registry) Status(playerID int64) Status {
	if !r.Online(playerID) {
		return StatusOffline
	}
	if r.locator.InGame != nil && r.locator.InGame(playerID) {
		return StatusInGame
	}
	if r.locator.InLobby != nil && r.locator.InLobby(playerID) {
		return StatusInLobby
	}
	return StatusOnline
}

// NotifyStatusChange 将玩家的新状态扇出给其在线好友.
// 单个好友推送失败只摘除该好友的通道, 不影响其他人.
func (r *Registry) NotifyStatusChange(ctx context.Context, playerID int64, status Status) {
	friends, err := r.dir.Friends(ctx, playerID)
	if err != nil {
		log.Warnf("load friends of %d: %v", playerID, err)
		return
	}
	for _, fid := range friends {
		r.trySend(fid, func(s push.Sink) error {
			return s.FriendStatusChanged(playerID, int32(status))
		})
	}
}

// NotifyNewFriendRequest 好友请求通知, 对端离线则静默丢弃.
func (r *Registry) NotifyNewFriendRequest(fromID, toID int64) {
	r.trySend(toID, func(s push.Sink) error { return s.NewFriendRequest(fromID) })
}

// NotifyFriendListUpdate 提示客户端重拉好友列表.
func (r *Registry) NotifyFriendListUpdate(playerID int64) {
	r.trySend(playerID, func(s push.Sink) error { return s.FriendListUpdate() })
}

func (r *Registry) trySend(playerID int64, fn func(push.Sink) error) {
	sink := r.Sink(playerID)
	if sink == nil {
		return
	}
	if err := fn(sink); err != nil {
		log.Warnf("push to player %d failed, unsubscribing: %v", playerID, err)
		r.Unsubscribe(playerID)
	}
}
