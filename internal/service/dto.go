package service

import "github.com/yola1107/conquian/internal/biz/push"

/*
	请求/应答 DTO. 报文体为 JSON.
*/

type Empty struct{}

type LoginReq struct {
	PlayerID int64 `json:"playerId"`
}

type LoginRsp struct {
	PlayerID  int64  `json:"playerId"`
	LobbyCode string `json:"lobbyCode,omitempty"`
	GameCode  string `json:"gameCode,omitempty"`
}

type CreateLobbyReq struct {
	GamemodeID int32 `json:"gamemodeId"`
}

type JoinLobbyReq struct {
	RoomCode string `json:"roomCode"`
}

type GuestJoinReq struct {
	Token     string `json:"token"`
	Nickname  string `json:"nickname"`
	PhotoPath string `json:"photoPath"`
}

type GuestJoinRsp struct {
	PlayerID int64     `json:"playerId"`
	Lobby    *LobbyRsp `json:"lobby"`
}

// LobbyRsp 大厅快照
type LobbyRsp struct {
	RoomCode   string              `json:"roomCode"`
	HostID     int64               `json:"hostId"`
	GamemodeID int32               `json:"gamemodeId"`
	Players    []*push.LobbyPlayer `json:"players"`
}

type KickPlayerReq struct {
	TargetID int64 `json:"targetId"`
	Ban      bool  `json:"ban"`
}

type SetGamemodeReq struct {
	GamemodeID int32 `json:"gamemodeId"`
}

type LobbyChatReq struct {
	Text string `json:"text"`
}

type StartGameRsp struct {
	RoomCode string `json:"roomCode"`
}

type InviteGuestReq struct {
	Email string `json:"email"`
}

type InviteGuestRsp struct {
	Token        string `json:"token"`
	ExpiresInSec int64  `json:"expiresInSec"`
}

type InviteRegisteredReq struct {
	TargetID int64 `json:"targetId"`
}

type FriendStatusesRsp struct {
	Statuses map[int64]int32 `json:"statuses"`
}

type FriendRequestReq struct {
	TargetID int64 `json:"targetId"`
}

type DrawRsp struct {
	Card int32 `json:"card"`
}

type DiscardReq struct {
	Card int32 `json:"card"`
}

type SwapReq struct {
	Card int32 `json:"card"` // 要弃的手牌
}

type SwapRsp struct {
	TakenCard int32 `json:"takenCard"` // 换到的弃牌堆顶
}

type MeldReq struct {
	Cards []int32 `json:"cards"`
}
