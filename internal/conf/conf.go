package conf

import (
	"fmt"

	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
)

const Name = "conquian"
const Version = "v0.0.1"

type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
}

type Server struct {
	Websocket *Websocket `json:"websocket"`
}

type Websocket struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	Path    string `json:"path"`
	Timeout int64  `json:"timeout"` // 请求超时(秒)
}

type Data struct {
	Redis *Redis `json:"redis"`
}

type Redis struct {
	Addr         string `json:"addr"`
	Password     string `json:"password"`
	Db           int32  `json:"db"`
	DialTimeout  int64  `json:"dial_timeout"`  // 秒
	ReadTimeout  int64  `json:"read_timeout"`  // 秒
	WriteTimeout int64  `json:"write_timeout"` // 秒
}

// LoadConfig 加载配置
func LoadConfig(flagconf string) (config.Config, *Bootstrap) {
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %v", err))
	}
	if bc.Server == nil || bc.Server.Websocket == nil {
		panic("bootstrap config invalid: server.websocket missing")
	}
	if bc.Data == nil || bc.Data.Redis == nil {
		panic("bootstrap config invalid: data.redis missing")
	}

	return c, &bc
}
