package game

import (
	"sync"

	"github.com/yola1107/conquian/pkg/codes"
)

// Registry 按房间码索引进行中的对局. 并发安全.
type Registry struct {
	matches sync.Map // roomCode -> *Match
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create 为给定房间开一局并登记. 同一房间码重复开局视为冲突,
// 落败的一局就地撤销, 不产生终局事件.
func (r *Registry) Create(roomCode string, gamemodeID int32, players [2]int64, repo Repo) (*Match, error) {
	m := NewMatch(roomCode, gamemodeID, players, repo)
	if _, loaded := r.matches.LoadOrStore(roomCode, m); loaded {
		m.stop()
		return nil, codes.ErrorOperationFailed("room %s already has a running match", roomCode)
	}
	return m, nil
}

func (r *Registry) Get(roomCode string) (*Match, bool) {
	v, ok := r.matches.Load(roomCode)
	if !ok {
		return nil, false
	}
	return v.(*Match), true
}

func (r *Registry) Remove(roomCode string) {
	r.matches.Delete(roomCode)
}

// CodeForPlayer 返回玩家所在的进行中对局的房间码.
func (r *Registry) CodeForPlayer(playerID int64) (string, bool) {
	var code string
	r.matches.Range(func(_, v any) bool {
		m := v.(*Match)
		if m.HasPlayer(playerID) && !m.Finished() {
			code = m.RoomCode()
			return false
		}
		return true
	})
	return code, code != ""
}

// AbandonFor 结束玩家参与的所有进行中对局, 判对手胜.
// 用于断线与登出清理.
func (r *Registry) AbandonFor(playerID int64) {
	r.matches.Range(func(_, v any) bool {
		m := v.(*Match)
		if m.HasPlayer(playerID) {
			m.Abandon(playerID)
		}
		return true
	})
}

func (r *Registry) Len() int {
	n := 0
	r.matches.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
