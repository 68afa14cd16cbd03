package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/conquian/pkg/roomcode"
)

func player(id int64) *push.LobbyPlayer {
	return &push.LobbyPlayer{ID: id, Nickname: "p", IsGuest: id < 0}
}

func TestSessionJoinLeave(t *testing.T) {
	s := newSession("AAAAA", player(1), 1)
	require.Equal(t, int64(1), s.HostID())
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.AddPlayer(player(2)))
	require.Equal(t, 2, s.Len())

	t.Run("idempotent join", func(t *testing.T) {
		require.NoError(t, s.AddPlayer(player(2)))
		require.Equal(t, 2, s.Len())
	})

	t.Run("full lobby", func(t *testing.T) {
		err := s.AddPlayer(player(3))
		require.True(t, codes.IsLobbyFull(err))
	})

	p, ok := s.RemovePlayer(2)
	require.True(t, ok)
	require.Equal(t, int64(2), p.ID)
	_, ok = s.RemovePlayer(2)
	require.False(t, ok)
}

func TestSessionBan(t *testing.T) {
	s := newSession("AAAAA", player(1), 1)
	require.NoError(t, s.AddPlayer(player(2)))

	s.Ban(2)
	s.RemovePlayer(2)
	require.True(t, s.IsBanned(2))

	err := s.AddPlayer(player(2))
	require.True(t, codes.IsPlayerBanned(err))

	// 封禁不影响别人
	require.NoError(t, s.AddPlayer(player(3)))
}

func TestSessionStart(t *testing.T) {
	s := newSession("AAAAA", player(1), 1)

	_, err := s.MarkStarted()
	require.True(t, codes.IsNotEnoughPlayers(err))

	require.NoError(t, s.AddPlayer(player(2)))
	members, err := s.MarkStarted()
	require.NoError(t, err)
	require.True(t, s.Started())

	// 开局瞬间的名单, 房主在首位
	require.Len(t, members, Capacity)
	require.Equal(t, int64(1), members[0].ID)
	require.Equal(t, int64(2), members[1].ID)

	// 开局后不可离席, 名单保持完整
	_, ok := s.RemovePlayer(2)
	require.False(t, ok)
	require.Equal(t, Capacity, s.Len())

	_, err = s.MarkStarted()
	require.True(t, codes.IsOperationFailed(err))
}

func TestGuestPoolRecycle(t *testing.T) {
	p := NewGuestPool()
	require.Equal(t, MaxGuests, p.Available())

	a, err := p.Acquire()
	require.NoError(t, err)
	require.Negative(t, a)

	b, err := p.Acquire()
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	// 后进先出: 刚释放的最先复用
	p.Release(a)
	c, err := p.Acquire()
	require.NoError(t, err)
	require.Equal(t, a, c)

	// 重复释放与非游客ID被忽略
	p.Release(b)
	p.Release(b)
	p.Release(7)
	require.Equal(t, MaxGuests-1, p.Available())
}

func TestGuestPoolExhausted(t *testing.T) {
	p := NewGuestPool()
	for i := 0; i < MaxGuests; i++ {
		_, err := p.Acquire()
		require.NoError(t, err)
	}
	_, err := p.Acquire()
	require.True(t, codes.IsOperationFailed(err))
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	s := r.Create(player(1), 1)
	require.True(t, roomcode.Valid(s.RoomCode()))

	got, err := r.Get(s.RoomCode())
	require.NoError(t, err)
	require.Same(t, s, got)

	_, err = r.Get("ZZZZZ")
	require.True(t, codes.IsLobbyNotFound(err))

	code, ok := r.CodeForPlayer(1)
	require.True(t, ok)
	require.Equal(t, s.RoomCode(), code)
	_, ok = r.CodeForPlayer(2)
	require.False(t, ok)
}

func TestRegistryRemoveKeepsGuestLease(t *testing.T) {
	r := NewRegistry()
	s := r.Create(player(1), 1)

	g, err := r.AcquireGuest("guest", "")
	require.NoError(t, err)
	require.NoError(t, s.AddPlayer(g))
	require.Equal(t, MaxGuests-1, r.GuestsAvailable())

	// 摘除大厅不动游客租约, 断线路径才归还
	r.Remove(s.RoomCode())
	require.Equal(t, MaxGuests-1, r.GuestsAvailable())
	_, err = r.Get(s.RoomCode())
	require.True(t, codes.IsLobbyNotFound(err))

	r.ReleaseGuest(g.ID)
	require.Equal(t, MaxGuests, r.GuestsAvailable())
}

func TestAcquireGuestDefaultNickname(t *testing.T) {
	r := NewRegistry()

	g, err := r.AcquireGuest("", "")
	require.NoError(t, err)
	require.Equal(t, int64(-1), g.ID)
	require.Equal(t, "Guest1", g.Nickname)
	require.True(t, g.IsGuest)

	// 客户端给了昵称则沿用
	named, err := r.AcquireGuest("Visitor", "")
	require.NoError(t, err)
	require.Equal(t, "Visitor", named.Nickname)
}
