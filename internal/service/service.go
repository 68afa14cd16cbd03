package service

import (
	"context"

	"github.com/google/wire"
	"github.com/yola1107/conquian/internal/biz"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/kratos/v2/log"
	"github.com/yola1107/kratos/v2/transport/websocket"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewService)

// Service 接入层: 解包请求, 定位会话玩家, 转发给业务门面.
type Service struct {
	uc  *biz.Usecase
	log *log.Helper
}

// NewService new a service.
func NewService(uc *biz.Usecase, logger log.Logger) *Service {
	return &Service{uc: uc, log: log.NewHelper(logger)}
}

func sessionFrom(ctx context.Context) (*websocket.Session, error) {
	sess, ok := ctx.Value(websocket.CtxSessionKey).(*websocket.Session)
	if !ok || sess == nil {
		return nil, codes.ErrorOperationFailed("no session in context")
	}
	return sess, nil
}

// uid 已登录会话的玩家ID. 未登录拒绝.
func uid(ctx context.Context) (int64, error) {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return 0, err
	}
	id := sess.UID()
	if id == 0 {
		return 0, codes.ErrorValidationFailed("session is not logged in")
	}
	return id, nil
}
