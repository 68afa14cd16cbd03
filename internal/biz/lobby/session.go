package lobby

import (
	"sync"
	"time"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
)

// Capacity 对局为两人制, 大厅满员即可开局.
const Capacity = 2

// Session 开局前的等待房间. 房主负责踢人/封禁/改模式/开局.
type Session struct {
	mu sync.Mutex

	roomCode   string
	hostID     int64
	gamemodeID int32
	players    []*push.LobbyPlayer // 加入顺序, 房主在首位
	banned     map[int64]struct{}
	started    bool
	createdAt  time.Time
}

func newSession(roomCode string, host *push.LobbyPlayer, gamemodeID int32) *Session {
	return &Session{
		roomCode:   roomCode,
		hostID:     host.ID,
		gamemodeID: gamemodeID,
		players:    []*push.LobbyPlayer{host},
		banned:     make(map[int64]struct{}),
		createdAt:  time.Now(),
	}
}

func (s *Session) RoomCode() string { return s.roomCode }
func (s *Session) HostID() int64    { return s.hostID }

func (s *Session) GamemodeID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamemodeID
}

func (s *Session) SetGamemode(gamemodeID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gamemodeID = gamemodeID
}

// AddPlayer 加入大厅. 已在座的玩家重复加入是无害的空操作.
func (s *Session) AddPlayer(p *push.LobbyPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, banned := s.banned[p.ID]; banned {
		return codes.ErrorPlayerBanned("player %d is banned from room %s", p.ID, s.roomCode)
	}
	for _, cur := range s.players {
		if cur.ID == p.ID {
			return nil
		}
	}
	if len(s.players) >= Capacity {
		return codes.ErrorLobbyFull("room %s is full (%d/%d)", s.roomCode, len(s.players), Capacity)
	}
	s.players = append(s.players, p)
	return nil
}

// RemovePlayer 离开/被踢. 返回被移除的成员.
// 开局后成员已转入对局, 不可再离席.
func (s *Session) RemovePlayer(playerID int64) (*push.LobbyPlayer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, false
	}
	for i, p := range s.players {
		if p.ID == playerID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// Ban 封禁后该玩家无法重新加入. 只记录ID, 移除交给调用方.
func (s *Session) Ban(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banned[playerID] = struct{}{}
}

func (s *Session) IsBanned(playerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.banned[playerID]
	return ok
}

func (s *Session) Has(playerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Players 成员快照
func (s *Session) Players() []*push.LobbyPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*push.LobbyPlayer, len(s.players))
	copy(out, s.players)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// MarkStarted 开局标记, 只允许一次. 成员快照在同一次持锁内取出,
// 开局判定与名单不会被并发离席撕开.
func (s *Session) MarkStarted() ([]*push.LobbyPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, codes.ErrorOperationFailed("room %s already started its match", s.roomCode)
	}
	if len(s.players) < Capacity {
		return nil, codes.ErrorNotEnoughPlayers("room %s has %d/%d players", s.roomCode, len(s.players), Capacity)
	}
	s.started = true
	out := make([]*push.LobbyPlayer, len(s.players))
	copy(out, s.players)
	return out, nil
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
