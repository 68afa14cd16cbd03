package push

/*
	客户端推送抽象. 每个在线玩家绑定一个 Sink, 由传输层实现.
	任何一次推送都可能失败(对端已断开), 调用方须忽略错误并注销该 Sink,
	不得向核心操作传播.
*/

// GameState 对单个玩家可见的对局快照, 对手手牌只下发数量.
type GameState struct {
	RoomCode      string             `json:"roomCode"`
	Phase         int32              `json:"phase"`
	CurrentTurn   int64              `json:"currentTurn"`
	Hand          []int32            `json:"hand"`
	OpponentID    int64              `json:"opponentId"`
	OpponentCards int32              `json:"opponentCards"`
	DiscardTop    int32              `json:"discardTop"`
	DiscardCount  int32              `json:"discardCount"`
	StockCount    int32              `json:"stockCount"`
	Melds         map[int64][][]int32 `json:"melds"`
	HasDrawn      bool               `json:"hasDrawn"`
	MustDiscard   bool               `json:"mustDiscard"`
	RemainingSec  int64              `json:"remainingSec"`
}

// LobbyPlayer 大厅成员信息
type LobbyPlayer struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	PhotoPath string `json:"photoPath"`
	IsGuest   bool   `json:"isGuest"`
}

// Sink 单个在线玩家的单向推送通道.
type Sink interface {
	// 对局
	GameStateUpdated(state *GameState) error
	OpponentDrewFromDeck() error
	OpponentDiscarded(card int32) error
	TimeUpdated(remainingSec int64) error
	GameEndedByAbandonment() error
	GameEndedByAFK(reason string) error
	GameFinished(winnerID int64, isDraw bool) error

	// 大厅
	PlayerJoined(p *LobbyPlayer) error
	PlayerLeft(playerID int64) error
	LobbyClosed(roomCode string) error
	GamemodeChanged(gamemodeID int32) error
	GameStarted(roomCode string) error
	LobbyChat(fromID int64, text string) error

	// 社交/邀请
	FriendStatusChanged(friendID int64, status int32) error
	NewFriendRequest(fromID int64) error
	FriendListUpdate() error
	InvitationReceived(fromID int64, roomCode string) error
}
