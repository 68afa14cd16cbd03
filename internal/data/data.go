package data

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/yola1107/conquian/internal/biz"
	"github.com/yola1107/conquian/internal/conf"
	"github.com/yola1107/kratos/v2/log"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewPlayerDirectory, NewResultSink)

// Data .
type Data struct {
	rdb *redis.Client
	log *log.Helper
}

// NewData .
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Redis.Addr,
		Password:     c.Redis.Password,
		DB:           int(c.Redis.Db),
		DialTimeout:  time.Duration(c.Redis.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(c.Redis.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.Redis.WriteTimeout) * time.Second,
	})

	helper := log.NewHelper(logger)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		helper.Warnf("redis ping %s: %v", c.Redis.Addr, err)
	}

	d := &Data{rdb: rdb, log: helper}
	cleanup := func() {
		helper.Info("closing the data resources")
		_ = rdb.Close()
	}
	return d, cleanup, nil
}

// NewPlayerDirectory .
func NewPlayerDirectory(d *Data) biz.PlayerDirectory {
	return &playerDirectory{data: d}
}

// NewResultSink .
func NewResultSink(d *Data) biz.ResultSink {
	return &resultSink{data: d}
}
