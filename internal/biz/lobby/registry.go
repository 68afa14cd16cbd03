package lobby

import (
	"fmt"
	"sync"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/conquian/pkg/roomcode"
)

// Registry 按房间码索引等待中的大厅, 并统一管理游客ID.
type Registry struct {
	lobbies sync.Map // roomCode -> *Session
	guests  *GuestPool
}

func NewRegistry() *Registry {
	return &Registry{guests: NewGuestPool()}
}

// Create 以 host 为房主开新大厅, 房间码保证全局唯一.
func (r *Registry) Create(host *push.LobbyPlayer, gamemodeID int32) *Session {
	code := roomcode.NewUnique(func(c string) bool {
		_, taken := r.lobbies.Load(c)
		return taken
	})
	s := newSession(code, host, gamemodeID)
	r.lobbies.Store(code, s)
	return s
}

func (r *Registry) Get(roomCode string) (*Session, error) {
	v, ok := r.lobbies.Load(roomCode)
	if !ok {
		return nil, codes.ErrorLobbyNotFound("no lobby with code %s", roomCode)
	}
	return v.(*Session), nil
}

// Remove 摘除大厅(解散或开局转入对局). 不触碰游客ID:
// 租约与游客连接同生命周期, 由断线路径归还.
func (r *Registry) Remove(roomCode string) {
	r.lobbies.Delete(roomCode)
}

// AcquireGuest 从池中取一个游客身份. 未给昵称时按ID派生.
func (r *Registry) AcquireGuest(nickname, photoPath string) (*push.LobbyPlayer, error) {
	id, err := r.guests.Acquire()
	if err != nil {
		return nil, err
	}
	if nickname == "" {
		nickname = fmt.Sprintf("Guest%d", -id)
	}
	return &push.LobbyPlayer{ID: id, Nickname: nickname, PhotoPath: photoPath, IsGuest: true}, nil
}

// ReleaseGuest 归还游客ID, 仅在游客会话断开(或入座回滚)时调用.
func (r *Registry) ReleaseGuest(playerID int64) {
	r.guests.Release(playerID)
}

// CodeForPlayer 返回玩家所在大厅的房间码.
func (r *Registry) CodeForPlayer(playerID int64) (string, bool) {
	var code string
	r.lobbies.Range(func(_, v any) bool {
		s := v.(*Session)
		if s.Has(playerID) {
			code = s.RoomCode()
			return false
		}
		return true
	})
	return code, code != ""
}

func (r *Registry) Len() int {
	n := 0
	r.lobbies.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (r *Registry) GuestsAvailable() int {
	return r.guests.Available()
}
