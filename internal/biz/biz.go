package biz

import (
	"context"

	"github.com/google/wire"
	"github.com/yola1107/conquian/internal/biz/presence"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewUsecase)

// PlayerDirectory 注册玩家档案的只读来源.
type PlayerDirectory interface {
	presence.Directory
	IDByEmail(ctx context.Context, email string) (int64, error)
}

// ResultSink 对局结果落盘.
type ResultSink interface {
	RecordResult(ctx context.Context, roomCode string, winnerID, loserID int64, isDraw bool) error
}
