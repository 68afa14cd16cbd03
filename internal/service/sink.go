package service

import (
	"encoding/json"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/kratos/v2/transport/websocket"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

/*
	推送命令
*/
const (
	PushGameState     int32 = 2001
	PushOpponentDrew  int32 = 2003
	PushOpponentDisc  int32 = 2005
	PushTimeUpdated   int32 = 2007
	PushEndAbandon    int32 = 2009
	PushEndAFK        int32 = 2011
	PushGameFinished  int32 = 2013
	PushPlayerJoined  int32 = 2101
	PushPlayerLeft    int32 = 2103
	PushLobbyClosed   int32 = 2105
	PushGamemode      int32 = 2107
	PushGameStarted   int32 = 2109
	PushLobbyChat     int32 = 2111
	PushFriendStatus  int32 = 2201
	PushFriendRequest int32 = 2203
	PushFriendList    int32 = 2205
	PushInvitation    int32 = 2207
)

// 推送报文体
type opponentDiscMsg struct {
	Card int32 `json:"card"`
}

type timeUpdatedMsg struct {
	RemainingSec int64 `json:"remainingSec"`
}

type endAFKMsg struct {
	Reason string `json:"reason"`
}

type gameFinishedMsg struct {
	WinnerID int64 `json:"winnerId"`
	IsDraw   bool  `json:"isDraw"`
}

type playerLeftMsg struct {
	PlayerID int64 `json:"playerId"`
}

type lobbyClosedMsg struct {
	RoomCode string `json:"roomCode"`
}

type gamemodeMsg struct {
	GamemodeID int32 `json:"gamemodeId"`
}

type gameStartedMsg struct {
	RoomCode string `json:"roomCode"`
}

type lobbyChatMsg struct {
	FromID int64  `json:"fromId"`
	Text   string `json:"text"`
}

type friendStatusMsg struct {
	FriendID int64 `json:"friendId"`
	Status   int32 `json:"status"`
}

type friendRequestMsg struct {
	FromID int64 `json:"fromId"`
}

type invitationMsg struct {
	FromID   int64  `json:"fromId"`
	RoomCode string `json:"roomCode"`
}

// sessionSink 把业务推送编码成 JSON 经会话下发.
type sessionSink struct {
	sess *websocket.Session
}

func newSessionSink(sess *websocket.Session) push.Sink {
	return &sessionSink{sess: sess}
}

func (s *sessionSink) push(command int32, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sess.Push(command, wrapperspb.Bytes(body))
}

func (s *sessionSink) GameStateUpdated(state *push.GameState) error {
	return s.push(PushGameState, state)
}

func (s *sessionSink) OpponentDrewFromDeck() error {
	return s.push(PushOpponentDrew, &Empty{})
}

func (s *sessionSink) OpponentDiscarded(card int32) error {
	return s.push(PushOpponentDisc, &opponentDiscMsg{Card: card})
}

func (s *sessionSink) TimeUpdated(remainingSec int64) error {
	return s.push(PushTimeUpdated, &timeUpdatedMsg{RemainingSec: remainingSec})
}

func (s *sessionSink) GameEndedByAbandonment() error {
	return s.push(PushEndAbandon, &Empty{})
}

func (s *sessionSink) GameEndedByAFK(reason string) error {
	return s.push(PushEndAFK, &endAFKMsg{Reason: reason})
}

func (s *sessionSink) GameFinished(winnerID int64, isDraw bool) error {
	return s.push(PushGameFinished, &gameFinishedMsg{WinnerID: winnerID, IsDraw: isDraw})
}

func (s *sessionSink) PlayerJoined(p *push.LobbyPlayer) error {
	return s.push(PushPlayerJoined, p)
}

func (s *sessionSink) PlayerLeft(playerID int64) error {
	return s.push(PushPlayerLeft, &playerLeftMsg{PlayerID: playerID})
}

func (s *sessionSink) LobbyClosed(roomCode string) error {
	return s.push(PushLobbyClosed, &lobbyClosedMsg{RoomCode: roomCode})
}

func (s *sessionSink) GamemodeChanged(gamemodeID int32) error {
	return s.push(PushGamemode, &gamemodeMsg{GamemodeID: gamemodeID})
}

func (s *sessionSink) GameStarted(roomCode string) error {
	return s.push(PushGameStarted, &gameStartedMsg{RoomCode: roomCode})
}

func (s *sessionSink) LobbyChat(fromID int64, text string) error {
	return s.push(PushLobbyChat, &lobbyChatMsg{FromID: fromID, Text: text})
}

func (s *sessionSink) FriendStatusChanged(friendID int64, status int32) error {
	return s.push(PushFriendStatus, &friendStatusMsg{FriendID: friendID, Status: status})
}

func (s *sessionSink) NewFriendRequest(fromID int64) error {
	return s.push(PushFriendRequest, &friendRequestMsg{FromID: fromID})
}

func (s *sessionSink) FriendListUpdate() error {
	return s.push(PushFriendList, &Empty{})
}

func (s *sessionSink) InvitationReceived(fromID int64, roomCode string) error {
	return s.push(PushInvitation, &invitationMsg{FromID: fromID, RoomCode: roomCode})
}
