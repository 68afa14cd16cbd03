package invite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yola1107/conquian/internal/biz/presence"
	"github.com/yola1107/conquian/pkg/codes"
)

func TestTokenSingleUse(t *testing.T) {
	r := NewRegistry()

	tok := r.CreateToken("ana@example.com", "AAAAA")
	require.NotEmpty(t, tok.ID)
	require.Equal(t, 1, r.Len())

	got, err := r.Validate(tok.ID)
	require.NoError(t, err)
	require.Equal(t, "AAAAA", got.RoomCode)
	require.Equal(t, "ana@example.com", got.Email)

	_, err = r.Validate(tok.ID)
	require.True(t, codes.IsGuestInviteUsed(err))

	// 已消耗优先于过期
	r.now = func() time.Time { return tok.CreatedAt.Add(TokenTTL + time.Minute) }
	_, err = r.Validate(tok.ID)
	require.True(t, codes.IsGuestInviteUsed(err))
}

func TestReinviteOverwritesOldToken(t *testing.T) {
	r := NewRegistry()
	old := r.CreateToken("ana@example.com", "AAAAA")
	fresh := r.CreateToken("ana@example.com", "BBBBB")

	// 同一邮箱只保留最新一张
	require.Equal(t, 1, r.Len())
	_, err := r.Validate(old.ID)
	require.True(t, codes.IsNotFound(err))

	got, err := r.Validate(fresh.ID)
	require.NoError(t, err)
	require.Equal(t, "BBBBB", got.RoomCode)
}

func TestTokenUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Validate("no-such-token")
	require.True(t, codes.IsNotFound(err))
}

func TestTokenExpiry(t *testing.T) {
	r := NewRegistry()
	tok := r.CreateToken("ana@example.com", "AAAAA")

	r.now = func() time.Time { return tok.CreatedAt.Add(TokenTTL + time.Second) }
	_, err := r.Validate(tok.ID)
	require.True(t, codes.IsValidationFailed(err))

	// 过期令牌被顺带清除
	require.Equal(t, 0, r.Len())
	_, err = r.Validate(tok.ID)
	require.True(t, codes.IsNotFound(err))
}

func TestRevokeByRoom(t *testing.T) {
	r := NewRegistry()
	a := r.CreateToken("a@example.com", "AAAAA")
	b := r.CreateToken("b@example.com", "AAAAA")
	c := r.CreateToken("c@example.com", "BBBBB")

	r.Revoke("AAAAA")
	require.Equal(t, 1, r.Len())

	_, err := r.Validate(a.ID)
	require.True(t, codes.IsNotFound(err))
	_, err = r.Validate(b.ID)
	require.True(t, codes.IsNotFound(err))
	_, err = r.Validate(c.ID)
	require.NoError(t, err)
}

func TestInviteRegisteredStatusGate(t *testing.T) {
	err := InviteRegistered(1, 2, "AAAAA", presence.StatusOffline, nil)
	require.True(t, codes.IsUserOffline(err))

	err = InviteRegistered(1, 2, "AAAAA", presence.StatusInGame, nil)
	require.True(t, codes.IsUserInGame(err))

	err = InviteRegistered(1, 2, "AAAAA", presence.StatusInLobby, nil)
	require.True(t, codes.IsUserInLobby(err))

	// 在线空闲但通道已失效
	err = InviteRegistered(1, 2, "AAAAA", presence.StatusOnline, nil)
	require.True(t, codes.IsUserOffline(err))
}
