package biz

import (
	"context"
	"strings"

	"github.com/yola1107/conquian/internal/biz/game"
	"github.com/yola1107/conquian/internal/biz/invite"
	"github.com/yola1107/conquian/internal/biz/lobby"
	"github.com/yola1107/conquian/internal/biz/presence"
	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
)

/*
	大厅与邀请操作
*/

// CreateLobby 注册玩家开新大厅并成为房主.
func (uc *Usecase) CreateLobby(ctx context.Context, playerID int64, gamemodeID int32) (*lobby.Session, error) {
	if _, ok := uc.games.CodeForPlayer(playerID); ok {
		return nil, codes.ErrorUserInGame("player %d is already in a match", playerID)
	}
	if _, ok := uc.lobbies.CodeForPlayer(playerID); ok {
		return nil, codes.ErrorUserInLobby("player %d is already in a lobby", playerID)
	}
	if err := validateGamemode(gamemodeID); err != nil {
		return nil, err
	}
	host, err := uc.profile(ctx, playerID)
	if err != nil {
		return nil, err
	}

	s := uc.lobbies.Create(host, gamemodeID)
	uc.log.Infof("lobby %s created by player %d", s.RoomCode(), playerID)
	uc.presence.NotifyStatusChange(ctx, playerID, presence.StatusInLobby)
	return s, nil
}

// JoinLobby 注册玩家按房间码入座. 重复加入同一大厅是空操作.
func (uc *Usecase) JoinLobby(ctx context.Context, playerID int64, roomCode string) (*lobby.Session, error) {
	if _, ok := uc.games.CodeForPlayer(playerID); ok {
		return nil, codes.ErrorUserInGame("player %d is already in a match", playerID)
	}
	if code, ok := uc.lobbies.CodeForPlayer(playerID); ok && code != roomCode {
		return nil, codes.ErrorUserInLobby("player %d is already in lobby %s", playerID, code)
	}
	s, err := uc.lobbies.Get(roomCode)
	if err != nil {
		return nil, err
	}
	p, err := uc.profile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := s.AddPlayer(p); err != nil {
		return nil, err
	}

	uc.broadcastLobby(s, playerID, func(sk push.Sink) error { return sk.PlayerJoined(p) })
	uc.presence.NotifyStatusChange(ctx, playerID, presence.StatusInLobby)
	return s, nil
}

// JoinAsGuest 凭邀请令牌以游客身份入座, 返回分配的游客ID.
// 令牌消耗后入座失败不回滚令牌, 但会立即归还游客ID.
func (uc *Usecase) JoinAsGuest(tokenID, nickname, photoPath string) (*push.LobbyPlayer, *lobby.Session, error) {
	t, err := uc.invites.Validate(tokenID)
	if err != nil {
		return nil, nil, err
	}
	s, err := uc.lobbies.Get(t.RoomCode)
	if err != nil {
		return nil, nil, err
	}
	g, err := uc.lobbies.AcquireGuest(nickname, photoPath)
	if err != nil {
		return nil, nil, err
	}
	if err := s.AddPlayer(g); err != nil {
		uc.lobbies.ReleaseGuest(g.ID)
		return nil, nil, err
	}

	uc.log.Infof("guest %d (%s) joined lobby %s", g.ID, nickname, t.RoomCode)
	uc.broadcastLobby(s, g.ID, func(sk push.Sink) error { return sk.PlayerJoined(g) })
	return g, s, nil
}

// LeaveLobby 离座. 房主离开即解散大厅并通知其余成员.
func (uc *Usecase) LeaveLobby(ctx context.Context, playerID int64) error {
	code, ok := uc.lobbies.CodeForPlayer(playerID)
	if !ok {
		return codes.ErrorLobbyNotFound("player %d is not in a lobby", playerID)
	}
	s, err := uc.lobbies.Get(code)
	if err != nil {
		return err
	}

	if s.HostID() == playerID {
		uc.broadcastLobby(s, playerID, func(sk push.Sink) error { return sk.LobbyClosed(code) })
		uc.invites.Revoke(code)
		uc.lobbies.Remove(code)
		uc.log.Infof("lobby %s dissolved by host %d", code, playerID)
	} else {
		s.RemovePlayer(playerID)
		uc.broadcastLobby(s, playerID, func(sk push.Sink) error { return sk.PlayerLeft(playerID) })
	}

	if playerID > 0 {
		uc.presence.NotifyStatusChange(ctx, playerID, presence.StatusOnline)
	}
	return nil
}

// KickPlayer 房主踢人. ban 为真时同时封禁, 被封禁者无法再进此大厅.
func (uc *Usecase) KickPlayer(ctx context.Context, hostID, targetID int64, ban bool) error {
	s, err := uc.hostedLobby(hostID)
	if err != nil {
		return err
	}
	if targetID == hostID {
		return codes.ErrorNotKickYourSelf("host %d cannot kick the host seat", hostID)
	}
	if !s.Has(targetID) {
		return codes.ErrorNotFound("player %d is not in lobby %s", targetID, s.RoomCode())
	}

	if ban {
		s.Ban(targetID)
	}
	s.RemovePlayer(targetID)

	uc.sendTo(targetID, func(sk push.Sink) error { return sk.LobbyClosed(s.RoomCode()) })
	uc.broadcastLobby(s, targetID, func(sk push.Sink) error { return sk.PlayerLeft(targetID) })
	if targetID > 0 {
		uc.presence.NotifyStatusChange(ctx, targetID, presence.StatusOnline)
	}
	return nil
}

// SetGamemode 房主切换游戏模式, 广播给全体成员.
func (uc *Usecase) SetGamemode(hostID int64, gamemodeID int32) error {
	s, err := uc.hostedLobby(hostID)
	if err != nil {
		return err
	}
	if err := validateGamemode(gamemodeID); err != nil {
		return err
	}
	s.SetGamemode(gamemodeID)
	uc.broadcastLobby(s, 0, func(sk push.Sink) error { return sk.GamemodeChanged(gamemodeID) })
	return nil
}

// SendLobbyChat 大厅内聊天, 发给除发送者外的成员.
func (uc *Usecase) SendLobbyChat(playerID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return codes.ErrorValidationFailed("empty chat message")
	}
	code, ok := uc.lobbies.CodeForPlayer(playerID)
	if !ok {
		return codes.ErrorLobbyNotFound("player %d is not in a lobby", playerID)
	}
	s, err := uc.lobbies.Get(code)
	if err != nil {
		return err
	}
	uc.broadcastLobby(s, playerID, func(sk push.Sink) error { return sk.LobbyChat(playerID, text) })
	return nil
}

// StartGame 房主开局: 大厅摘除, 对局登记并发牌.
func (uc *Usecase) StartGame(ctx context.Context, hostID int64) (string, error) {
	s, err := uc.hostedLobby(hostID)
	if err != nil {
		return "", err
	}
	members, err := s.MarkStarted()
	if err != nil {
		return "", err
	}

	players := [2]int64{members[0].ID, members[1].ID}
	code := s.RoomCode()

	uc.broadcastLobby(s, 0, func(sk push.Sink) error { return sk.GameStarted(code) })
	uc.lobbies.Remove(code)
	uc.invites.Revoke(code)

	if _, err := uc.games.Create(code, s.GamemodeID(), players, uc); err != nil {
		return "", err
	}
	uc.log.Infof("match %s started: %v", code, players)
	for _, id := range players {
		if id > 0 {
			uc.presence.NotifyStatusChange(ctx, id, presence.StatusInGame)
		}
	}
	return code, nil
}

/*
	邀请
*/

// InviteGuest 为邮箱签发游客令牌. 已注册的邮箱必须走注册邀请.
func (uc *Usecase) InviteGuest(ctx context.Context, hostID int64, email string) (*invite.Token, error) {
	s, err := uc.hostedLobby(hostID)
	if err != nil {
		return nil, err
	}
	if id, err := uc.dir.IDByEmail(ctx, email); err != nil {
		return nil, err
	} else if id != 0 {
		return nil, codes.ErrorRegisteredUserAsGuest("%s belongs to registered player %d", email, id)
	}
	return uc.invites.CreateToken(email, s.RoomCode()), nil
}

// InviteRegistered 邀请注册玩家进入自己所在的大厅.
func (uc *Usecase) InviteRegistered(fromID, toID int64) error {
	code, ok := uc.lobbies.CodeForPlayer(fromID)
	if !ok {
		return codes.ErrorLobbyNotFound("player %d is not in a lobby", fromID)
	}
	if toID <= 0 {
		return codes.ErrorValidationFailed("player %d is not a registered account", toID)
	}
	return invite.InviteRegistered(fromID, toID, code, uc.presence.Status(toID), uc.presence.Sink(toID))
}

/*
	社交
*/

// FriendStatuses 好友在线状态表.
func (uc *Usecase) FriendStatuses(ctx context.Context, playerID int64) (map[int64]int32, error) {
	friends, err := uc.dir.Friends(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int32, len(friends))
	for _, fid := range friends {
		out[fid] = int32(uc.presence.Status(fid))
	}
	return out, nil
}

// SendFriendRequest 好友请求, 对端离线静默丢弃.
func (uc *Usecase) SendFriendRequest(fromID, toID int64) {
	uc.presence.NotifyNewFriendRequest(fromID, toID)
}

// NotifyFriendsChanged 好友关系变更后提示双方刷新列表.
func (uc *Usecase) NotifyFriendsChanged(aID, bID int64) {
	uc.presence.NotifyFriendListUpdate(aID)
	uc.presence.NotifyFriendListUpdate(bID)
}

/*
	内部辅助
*/

func (uc *Usecase) hostedLobby(hostID int64) (*lobby.Session, error) {
	code, ok := uc.lobbies.CodeForPlayer(hostID)
	if !ok {
		return nil, codes.ErrorLobbyNotFound("player %d is not in a lobby", hostID)
	}
	s, err := uc.lobbies.Get(code)
	if err != nil {
		return nil, err
	}
	if s.HostID() != hostID {
		return nil, codes.ErrorNotLobbyHost("player %d is not the host of %s", hostID, code)
	}
	return s, nil
}

func (uc *Usecase) profile(ctx context.Context, playerID int64) (*push.LobbyPlayer, error) {
	if playerID <= 0 {
		return nil, codes.ErrorValidationFailed("player %d is not a registered account", playerID)
	}
	p, err := uc.dir.Player(ctx, playerID)
	if err != nil {
		return nil, codes.ErrorNotFound("player %d profile: %v", playerID, err)
	}
	return &push.LobbyPlayer{ID: p.ID, Nickname: p.Nickname, PhotoPath: p.PhotoPath}, nil
}

func validateGamemode(gamemodeID int32) error {
	if gamemodeID != game.GamemodeClassic && gamemodeID != game.GamemodeExtended {
		return codes.ErrorValidationFailed("unknown gamemode %d", gamemodeID)
	}
	return nil
}
