package game

import (
	"fmt"
	"time"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/pkg/timer"
)

/*
	Phase 对局阶段
*/

type Phase int32

const (
	PhDealing         Phase = iota // 发牌
	PhAwaitingDraw                 // 等待摸牌
	PhAwaitingDiscard              // 等待弃牌/组牌
	PhFinished                     // 对局结束
)

var phaseNames = map[Phase]string{
	PhDealing:         "PhDealing",
	PhAwaitingDraw:    "PhAwaitingDraw",
	PhAwaitingDiscard: "PhAwaitingDiscard",
	PhFinished:        "PhFinished",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", p)
}

/*
	游戏模式与计时
*/

const (
	GamemodeClassic  int32 = 1
	GamemodeExtended int32 = 2
)

// 各模式回合倒计时(秒). 未知模式回退到经典场.
var gamemodeTimeouts = map[int32]int64{
	GamemodeClassic:  600,
	GamemodeExtended: 1200,
}

// TurnTimeout 返回模式对应的回合时长.
func TurnTimeout(gamemodeID int32) time.Duration {
	if sec, ok := gamemodeTimeouts[gamemodeID]; ok {
		return time.Duration(sec) * time.Second
	}
	return time.Duration(gamemodeTimeouts[GamemodeClassic]) * time.Second
}

const (
	// 挂机判定后到真正终局前的缓冲
	afkGraceDelay = 3 * time.Second

	// 剩余时间推送周期
	timePushInterval = 30 * time.Second

	handSize = 6
)

// 终局原因
const (
	endReasonWin     = "win"
	endReasonDeckOut = "deck_exhausted"
	endReasonAFK     = "afk_timeout"
	endReasonAbandon = "abandon"
)

// Repo 对局的外部依赖.
type Repo interface {
	GetTimer() timer.Scheduler
	GetSink(playerID int64) push.Sink // 离线玩家返回 nil
	DropSink(playerID int64)
	RecordResult(roomCode string, winnerID, loserID int64, isDraw bool)
	OnMatchFinished(roomCode string)
}
