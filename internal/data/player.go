package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/yola1107/conquian/internal/biz/presence"
)

// 玩家档案 hash 字段
const (
	playerNicknameField = "nickname"
	playerPhotoField    = "photo_path"
)

var errNoPlayer = errors.New("redis no exist player")

func playerKey(playerID int64) string {
	return fmt.Sprintf("conquian:player:%d", playerID)
}

func friendsKey(playerID int64) string {
	return fmt.Sprintf("conquian:friends:%d", playerID)
}

func emailKey(email string) string {
	return fmt.Sprintf("conquian:email:%s", email)
}

type playerDirectory struct {
	data *Data
}

func (r *playerDirectory) Player(ctx context.Context, playerID int64) (*presence.PlayerSummary, error) {
	values, err := r.data.rdb.HGetAll(ctx, playerKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errNoPlayer
	}
	return &presence.PlayerSummary{
		ID:        playerID,
		Nickname:  values[playerNicknameField],
		PhotoPath: values[playerPhotoField],
	}, nil
}

func (r *playerDirectory) Friends(ctx context.Context, playerID int64) ([]int64, error) {
	members, err := r.data.rdb.SMembers(ctx, friendsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	friends := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			r.data.log.Warnf("bad friend id %q of player %d", m, playerID)
			continue
		}
		friends = append(friends, id)
	}
	return friends, nil
}

// IDByEmail 未注册的邮箱返回 0.
func (r *playerDirectory) IDByEmail(ctx context.Context, email string) (int64, error) {
	v, err := r.data.rdb.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}
