package server

import (
	"time"

	"github.com/yola1107/conquian/internal/conf"
	"github.com/yola1107/conquian/internal/service"
	"github.com/yola1107/kratos/v2/middleware/recovery"
	"github.com/yola1107/kratos/v2/transport/websocket"
)

// NewWebsocketServer new an Websocket server.
func NewWebsocketServer(c *conf.Server, svc *service.Service) *websocket.Server {
	var opts = []websocket.ServerOption{
		websocket.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Websocket.Network != "" {
		opts = append(opts, websocket.Network(c.Websocket.Network))
	}
	if c.Websocket.Addr != "" {
		opts = append(opts, websocket.Address(c.Websocket.Addr))
	}
	if c.Websocket.Path != "" {
		opts = append(opts, websocket.Path(c.Websocket.Path))
	}
	if c.Websocket.Timeout > 0 {
		opts = append(opts, websocket.Timeout(time.Duration(c.Websocket.Timeout)*time.Second))
	}
	srv := websocket.NewServer(opts...)
	service.RegisterGameServer(srv, svc)
	return srv
}
