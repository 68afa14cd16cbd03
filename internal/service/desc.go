package service

import (
	"context"
	"encoding/json"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/kratos/v2/transport/websocket"
)

/*
	请求命令. 响应复用请求命令号, 推送命令见 sink.go.
*/
const (
	CmdLogin            int32 = 1001
	CmdLogout           int32 = 1003
	CmdCreateLobby      int32 = 1101
	CmdJoinLobby        int32 = 1103
	CmdJoinAsGuest      int32 = 1105
	CmdLeaveLobby       int32 = 1107
	CmdKickPlayer       int32 = 1109
	CmdSetGamemode      int32 = 1111
	CmdLobbyChat        int32 = 1113
	CmdStartGame        int32 = 1115
	CmdInviteGuest      int32 = 1201
	CmdInviteRegistered int32 = 1203
	CmdFriendStatuses   int32 = 1205
	CmdFriendRequest    int32 = 1207
	CmdDrawFromDeck     int32 = 1301
	CmdDiscardCard      int32 = 1303
	CmdSwapDrawnCard    int32 = 1305
	CmdMeldCards        int32 = 1307
	CmdPassTurn         int32 = 1309
	CmdAbandonGame      int32 = 1311
	CmdGameScene        int32 = 1313
)

// GameServer 会话协议面. *Service 必须完整实现.
type GameServer interface {
	Login(ctx context.Context, req *LoginReq) (*LoginRsp, error)
	Logout(ctx context.Context, req *Empty) (*Empty, error)
	CreateLobby(ctx context.Context, req *CreateLobbyReq) (*LobbyRsp, error)
	JoinLobby(ctx context.Context, req *JoinLobbyReq) (*LobbyRsp, error)
	JoinAsGuest(ctx context.Context, req *GuestJoinReq) (*GuestJoinRsp, error)
	LeaveLobby(ctx context.Context, req *Empty) (*Empty, error)
	KickPlayer(ctx context.Context, req *KickPlayerReq) (*Empty, error)
	SetGamemode(ctx context.Context, req *SetGamemodeReq) (*Empty, error)
	LobbyChat(ctx context.Context, req *LobbyChatReq) (*Empty, error)
	StartGame(ctx context.Context, req *Empty) (*StartGameRsp, error)
	InviteGuest(ctx context.Context, req *InviteGuestReq) (*InviteGuestRsp, error)
	InviteRegistered(ctx context.Context, req *InviteRegisteredReq) (*Empty, error)
	FriendStatuses(ctx context.Context, req *Empty) (*FriendStatusesRsp, error)
	FriendRequest(ctx context.Context, req *FriendRequestReq) (*Empty, error)
	DrawFromDeck(ctx context.Context, req *Empty) (*DrawRsp, error)
	DiscardCard(ctx context.Context, req *DiscardReq) (*Empty, error)
	SwapDrawnCard(ctx context.Context, req *SwapReq) (*SwapRsp, error)
	MeldCards(ctx context.Context, req *MeldReq) (*Empty, error)
	PassTurn(ctx context.Context, req *Empty) (*Empty, error)
	AbandonGame(ctx context.Context, req *Empty) (*Empty, error)
	GameScene(ctx context.Context, req *Empty) (*push.GameState, error)
}

var _ GameServer = (*Service)(nil)

// handler 把 JSON 报文体适配成类型化方法调用, 并走拦截器链.
func handler[Req, Rsp any](fullMethod string, call func(GameServer, context.Context, *Req) (*Rsp, error)) func(interface{}, context.Context, []byte, websocket.UnaryServerInterceptor) ([]byte, error) {
	return func(srv interface{}, ctx context.Context, data []byte, interceptor websocket.UnaryServerInterceptor) ([]byte, error) {
		in := new(Req)
		if len(data) > 0 {
			if err := json.Unmarshal(data, in); err != nil {
				return nil, codes.ErrorValidationFailed("bad request payload: %v", err)
			}
		}

		do := func(ctx context.Context, req *Req) ([]byte, error) {
			out, err := call(srv.(GameServer), ctx, req)
			if err != nil || out == nil {
				return nil, err
			}
			return json.Marshal(out)
		}

		if interceptor == nil {
			return do(ctx, in)
		}
		info := &websocket.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) ([]byte, error) {
			return do(ctx, req.(*Req))
		})
	}
}

// GameServiceDesc 服务描述
var GameServiceDesc = websocket.ServiceDesc{
	ServiceName: "conquian.GameServer",
	HandlerType: (*GameServer)(nil),
	Methods: []websocket.MethodDesc{
		{Ops: CmdLogin, MethodName: "Login", Handler: handler("/conquian.GameServer/Login", GameServer.Login)},
		{Ops: CmdLogout, MethodName: "Logout", Handler: handler("/conquian.GameServer/Logout", GameServer.Logout)},
		{Ops: CmdCreateLobby, MethodName: "CreateLobby", Handler: handler("/conquian.GameServer/CreateLobby", GameServer.CreateLobby)},
		{Ops: CmdJoinLobby, MethodName: "JoinLobby", Handler: handler("/conquian.GameServer/JoinLobby", GameServer.JoinLobby)},
		{Ops: CmdJoinAsGuest, MethodName: "JoinAsGuest", Handler: handler("/conquian.GameServer/JoinAsGuest", GameServer.JoinAsGuest)},
		{Ops: CmdLeaveLobby, MethodName: "LeaveLobby", Handler: handler("/conquian.GameServer/LeaveLobby", GameServer.LeaveLobby)},
		{Ops: CmdKickPlayer, MethodName: "KickPlayer", Handler: handler("/conquian.GameServer/KickPlayer", GameServer.KickPlayer)},
		{Ops: CmdSetGamemode, MethodName: "SetGamemode", Handler: handler("/conquian.GameServer/SetGamemode", GameServer.SetGamemode)},
		{Ops: CmdLobbyChat, MethodName: "LobbyChat", Handler: handler("/conquian.GameServer/LobbyChat", GameServer.LobbyChat)},
		{Ops: CmdStartGame, MethodName: "StartGame", Handler: handler("/conquian.GameServer/StartGame", GameServer.StartGame)},
		{Ops: CmdInviteGuest, MethodName: "InviteGuest", Handler: handler("/conquian.GameServer/InviteGuest", GameServer.InviteGuest)},
		{Ops: CmdInviteRegistered, MethodName: "InviteRegistered", Handler: handler("/conquian.GameServer/InviteRegistered", GameServer.InviteRegistered)},
		{Ops: CmdFriendStatuses, MethodName: "FriendStatuses", Handler: handler("/conquian.GameServer/FriendStatuses", GameServer.FriendStatuses)},
		{Ops: CmdFriendRequest, MethodName: "FriendRequest", Handler: handler("/conquian.GameServer/FriendRequest", GameServer.FriendRequest)},
		{Ops: CmdDrawFromDeck, MethodName: "DrawFromDeck", Handler: handler("/conquian.GameServer/DrawFromDeck", GameServer.DrawFromDeck)},
		{Ops: CmdDiscardCard, MethodName: "DiscardCard", Handler: handler("/conquian.GameServer/DiscardCard", GameServer.DiscardCard)},
		{Ops: CmdSwapDrawnCard, MethodName: "SwapDrawnCard", Handler: handler("/conquian.GameServer/SwapDrawnCard", GameServer.SwapDrawnCard)},
		{Ops: CmdMeldCards, MethodName: "MeldCards", Handler: handler("/conquian.GameServer/MeldCards", GameServer.MeldCards)},
		{Ops: CmdPassTurn, MethodName: "PassTurn", Handler: handler("/conquian.GameServer/PassTurn", GameServer.PassTurn)},
		{Ops: CmdAbandonGame, MethodName: "AbandonGame", Handler: handler("/conquian.GameServer/AbandonGame", GameServer.AbandonGame)},
		{Ops: CmdGameScene, MethodName: "GameScene", Handler: handler("/conquian.GameServer/GameScene", GameServer.GameScene)},
	},
}

// RegisterGameServer 注册游戏服务到 websocket server.
func RegisterGameServer(s *websocket.Server, srv GameServer) {
	s.RegisterService(&GameServiceDesc, srv)
}
