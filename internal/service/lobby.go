package service

import (
	"context"
	"strings"

	"github.com/yola1107/conquian/internal/biz/invite"
	"github.com/yola1107/conquian/internal/biz/lobby"
	"github.com/yola1107/conquian/pkg/codes"
)

func lobbySnapshot(s *lobby.Session) *LobbyRsp {
	return &LobbyRsp{
		RoomCode:   s.RoomCode(),
		HostID:     s.HostID(),
		GamemodeID: s.GamemodeID(),
		Players:    s.Players(),
	}
}

// Login 注册玩家绑定会话. 重复登录以最新会话为准.
func (s *Service) Login(ctx context.Context, req *LoginReq) (*LoginRsp, error) {
	if req.PlayerID <= 0 {
		return nil, codes.ErrorValidationFailed("player id %d is not a registered account", req.PlayerID)
	}
	sess, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	sess.SetUID(req.PlayerID)
	s.uc.Connect(ctx, req.PlayerID, newSessionSink(sess))

	rsp := &LoginRsp{PlayerID: req.PlayerID}
	if code, ok := s.uc.LobbyCodeFor(req.PlayerID); ok {
		rsp.LobbyCode = code
	}
	if code, ok := s.uc.GameCodeFor(req.PlayerID); ok {
		rsp.GameCode = code
	}
	return rsp, nil
}

// Logout 解绑会话并清理玩家的在场状态.
func (s *Service) Logout(ctx context.Context, _ *Empty) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	s.uc.Disconnect(ctx, id)
	if sess, err := sessionFrom(ctx); err == nil {
		sess.SetUID(0)
	}
	return &Empty{}, nil
}

func (s *Service) CreateLobby(ctx context.Context, req *CreateLobbyReq) (*LobbyRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.uc.CreateLobby(ctx, id, req.GamemodeID)
	if err != nil {
		return nil, err
	}
	return lobbySnapshot(sess), nil
}

func (s *Service) JoinLobby(ctx context.Context, req *JoinLobbyReq) (*LobbyRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.uc.JoinLobby(ctx, id, strings.ToUpper(strings.TrimSpace(req.RoomCode)))
	if err != nil {
		return nil, err
	}
	return lobbySnapshot(sess), nil
}

// JoinAsGuest 游客凭令牌入座并绑定会话. 昵称可空, 缺省按游客ID派生.
func (s *Service) JoinAsGuest(ctx context.Context, req *GuestJoinReq) (*GuestJoinRsp, error) {
	wsSess, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	if wsSess.UID() != 0 {
		return nil, codes.ErrorOperationFailed("session already bound to player %d", wsSess.UID())
	}
	g, lob, err := s.uc.JoinAsGuest(req.Token, strings.TrimSpace(req.Nickname), req.PhotoPath)
	if err != nil {
		return nil, err
	}
	wsSess.SetUID(g.ID)
	s.uc.Connect(ctx, g.ID, newSessionSink(wsSess))
	return &GuestJoinRsp{PlayerID: g.ID, Lobby: lobbySnapshot(lob)}, nil
}

func (s *Service) LeaveLobby(ctx context.Context, _ *Empty) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.LeaveLobby(ctx, id); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) KickPlayer(ctx context.Context, req *KickPlayerReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.KickPlayer(ctx, id, req.TargetID, req.Ban); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) SetGamemode(ctx context.Context, req *SetGamemodeReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.SetGamemode(id, req.GamemodeID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) LobbyChat(ctx context.Context, req *LobbyChatReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.SendLobbyChat(id, req.Text); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) StartGame(ctx context.Context, _ *Empty) (*StartGameRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	code, err := s.uc.StartGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StartGameRsp{RoomCode: code}, nil
}

func (s *Service) InviteGuest(ctx context.Context, req *InviteGuestReq) (*InviteGuestRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, codes.ErrorValidationFailed("bad email %q", req.Email)
	}
	t, err := s.uc.InviteGuest(ctx, id, email)
	if err != nil {
		return nil, err
	}
	return &InviteGuestRsp{Token: t.ID, ExpiresInSec: int64(invite.TokenTTL.Seconds())}, nil
}

func (s *Service) InviteRegistered(ctx context.Context, req *InviteRegisteredReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.InviteRegistered(id, req.TargetID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) FriendStatuses(ctx context.Context, _ *Empty) (*FriendStatusesRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.uc.FriendStatuses(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FriendStatusesRsp{Statuses: statuses}, nil
}

func (s *Service) FriendRequest(ctx context.Context, req *FriendRequestReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	s.uc.SendFriendRequest(id, req.TargetID)
	return &Empty{}, nil
}
