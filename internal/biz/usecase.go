package biz

import (
	"context"

	"github.com/yola1107/conquian/internal/biz/game"
	"github.com/yola1107/conquian/internal/biz/invite"
	"github.com/yola1107/conquian/internal/biz/lobby"
	"github.com/yola1107/conquian/internal/biz/presence"
	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/conquian/pkg/timer"
	"github.com/yola1107/kratos/v2/log"
)

const timerPoolSize = 1024

/*
	Usecase 业务门面. 持有四个注册表(对局/大厅/在线/邀请)与共享调度器,
	同时作为对局的外部依赖(game.Repo)把推送与结果落盘接回来.
*/
type Usecase struct {
	timer    timer.Scheduler
	games    *game.Registry
	lobbies  *lobby.Registry
	presence *presence.Registry
	invites  *invite.Registry

	dir     PlayerDirectory
	results ResultSink
	log     *log.Helper
}

func NewUsecase(dir PlayerDirectory, results ResultSink, logger log.Logger) (*Usecase, func(), error) {
	sched, err := timer.NewScheduler(timerPoolSize)
	if err != nil {
		return nil, nil, err
	}

	uc := &Usecase{
		timer:   sched,
		games:   game.NewRegistry(),
		lobbies: lobby.NewRegistry(),
		invites: invite.NewRegistry(),
		dir:     dir,
		results: results,
		log:     log.NewHelper(logger),
	}
	uc.presence = presence.NewRegistry(dir, presence.Locator{
		InLobby: func(id int64) bool { _, ok := uc.lobbies.CodeForPlayer(id); return ok },
		InGame:  func(id int64) bool { _, ok := uc.games.CodeForPlayer(id); return ok },
	})

	cleanup := func() { sched.Stop() }
	return uc, cleanup, nil
}

/*
	连接生命周期
*/

// Connect 绑定玩家连接. 重连的在局玩家立即补发对局快照.
func (uc *Usecase) Connect(ctx context.Context, playerID int64, sink push.Sink) {
	uc.presence.Subscribe(playerID, sink)
	uc.log.Infof("player %d connected", playerID)

	if playerID > 0 {
		uc.presence.NotifyStatusChange(ctx, playerID, uc.presence.Status(playerID))
	}
	if m, err := uc.matchOf(playerID); err == nil {
		st := m.State(playerID)
		uc.sendTo(playerID, func(s push.Sink) error { return s.GameStateUpdated(st) })
	}
}

// Disconnect 清理玩家的全部在场状态: 在局判负, 在厅离席, 游客ID回池.
// 游客ID只在这里归还: 离厅/终局不收回, 否则仍在线的旧会话
// 会与复用该ID的新游客撞身份.
func (uc *Usecase) Disconnect(ctx context.Context, playerID int64) {
	uc.games.AbandonFor(playerID)
	if _, ok := uc.lobbies.CodeForPlayer(playerID); ok {
		if err := uc.LeaveLobby(ctx, playerID); err != nil {
			uc.log.Warnf("leave lobby on disconnect, player %d: %v", playerID, err)
		}
	}
	uc.presence.Unsubscribe(playerID)
	uc.log.Infof("player %d disconnected", playerID)

	if playerID > 0 {
		uc.presence.NotifyStatusChange(ctx, playerID, presence.StatusOffline)
	}
	if playerID < 0 {
		uc.lobbies.ReleaseGuest(playerID)
	}
}

/*
	对局操作. 均按玩家定位其唯一进行中的对局.
*/

func (uc *Usecase) matchOf(playerID int64) (*game.Match, error) {
	code, ok := uc.games.CodeForPlayer(playerID)
	if !ok {
		return nil, codes.ErrorRoomNotFound("player %d is not in a running match", playerID)
	}
	m, ok := uc.games.Get(code)
	if !ok {
		return nil, codes.ErrorRoomNotFound("match %s is gone", code)
	}
	return m, nil
}

func (uc *Usecase) DrawFromDeck(playerID int64) (int32, error) {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return 0, err
	}
	return m.DrawFromDeck(playerID)
}

func (uc *Usecase) DiscardCard(playerID int64, cardID int32) error {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return err
	}
	return m.DiscardCard(playerID, cardID)
}

func (uc *Usecase) SwapDrawnCard(playerID int64, cardIDToDiscard int32) (int32, error) {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return 0, err
	}
	return m.SwapDrawnCard(playerID, cardIDToDiscard)
}

func (uc *Usecase) MeldCards(playerID int64, cardIDs []int32) error {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return err
	}
	return m.ProcessPlayerMove(playerID, cardIDs)
}

func (uc *Usecase) PassTurn(playerID int64) error {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return err
	}
	return m.PassTurn(playerID)
}

func (uc *Usecase) AbandonGame(playerID int64) error {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return err
	}
	m.Abandon(playerID)
	return nil
}

// GameScene 当前玩家视角的对局快照, 供重连/主动拉取.
func (uc *Usecase) GameScene(playerID int64) (*push.GameState, error) {
	m, err := uc.matchOf(playerID)
	if err != nil {
		return nil, err
	}
	return m.State(playerID), nil
}

// LobbyCodeFor 玩家当前所在大厅.
func (uc *Usecase) LobbyCodeFor(playerID int64) (string, bool) {
	return uc.lobbies.CodeForPlayer(playerID)
}

// GameCodeFor 玩家当前所在对局.
func (uc *Usecase) GameCodeFor(playerID int64) (string, bool) {
	return uc.games.CodeForPlayer(playerID)
}

/*
	game.Repo 实现
*/

func (uc *Usecase) GetTimer() timer.Scheduler { return uc.timer }

func (uc *Usecase) GetSink(playerID int64) push.Sink { return uc.presence.Sink(playerID) }

func (uc *Usecase) DropSink(playerID int64) { uc.presence.Unsubscribe(playerID) }

func (uc *Usecase) RecordResult(roomCode string, winnerID, loserID int64, isDraw bool) {
	if err := uc.results.RecordResult(context.Background(), roomCode, winnerID, loserID, isDraw); err != nil {
		uc.log.Errorf("record result of %s: %v", roomCode, err)
	}
}

// OnMatchFinished 终局回调: 摘除对局并刷新注册玩家状态.
// 必须先摘除再查状态, 否则状态定位会命中仍持锁的对局.
// 游客ID不在此归还, 见 Disconnect.
func (uc *Usecase) OnMatchFinished(roomCode string) {
	m, ok := uc.games.Get(roomCode)
	uc.games.Remove(roomCode)
	if !ok {
		return
	}
	ctx := context.Background()
	for _, id := range m.Players() {
		if id > 0 {
			uc.presence.NotifyStatusChange(ctx, id, uc.presence.Status(id))
		}
	}
}

/*
	内部推送
*/

func (uc *Usecase) sendTo(playerID int64, fn func(push.Sink) error) {
	sink := uc.presence.Sink(playerID)
	if sink == nil {
		return
	}
	if err := fn(sink); err != nil {
		uc.log.Warnf("push to player %d failed, unsubscribing: %v", playerID, err)
		uc.presence.Unsubscribe(playerID)
	}
}

func (uc *Usecase) broadcastLobby(s *lobby.Session, exceptID int64, fn func(push.Sink) error) {
	for _, p := range s.Players() {
		if p.ID == exceptID {
			continue
		}
		uc.sendTo(p.ID, fn)
	}
}
