package data

import (
	"context"
	"fmt"
	"time"
)

// 对局结果与玩家战绩
const (
	resultWinnerField   = "winner"
	resultLoserField    = "loser"
	resultDrawField     = "draw"
	resultFinishedField = "finished_at"

	statsWinsField   = "wins"
	statsLossesField = "losses"
	statsDrawsField  = "draws"

	resultTTL = 7 * 24 * time.Hour
)

func resultKey(roomCode string) string {
	return fmt.Sprintf("conquian:result:%s", roomCode)
}

func statsKey(playerID int64) string {
	return fmt.Sprintf("conquian:stats:%d", playerID)
}

type resultSink struct {
	data *Data
}

// RecordResult 结果落盘 + 注册玩家战绩累加. 游客(负ID)不累计战绩.
func (r *resultSink) RecordResult(ctx context.Context, roomCode string, winnerID, loserID int64, isDraw bool) error {
	rdb := r.data.rdb
	key := resultKey(roomCode)

	if err := rdb.HSet(ctx, key,
		resultWinnerField, winnerID,
		resultLoserField, loserID,
		resultDrawField, isDraw,
		resultFinishedField, time.Now().Unix(),
	).Err(); err != nil {
		return err
	}
	rdb.Expire(ctx, key, resultTTL)

	if isDraw {
		for _, id := range []int64{winnerID, loserID} {
			if id > 0 {
				rdb.HIncrBy(ctx, statsKey(id), statsDrawsField, 1)
			}
		}
		return nil
	}
	if winnerID > 0 {
		rdb.HIncrBy(ctx, statsKey(winnerID), statsWinsField, 1)
	}
	if loserID > 0 {
		rdb.HIncrBy(ctx, statsKey(loserID), statsLossesField, 1)
	}
	return nil
}
