package service

import (
	"context"

	"github.com/yola1107/conquian/internal/biz/push"
)

func (s *Service) DrawFromDeck(ctx context.Context, _ *Empty) (*DrawRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	card, err := s.uc.DrawFromDeck(id)
	if err != nil {
		return nil, err
	}
	return &DrawRsp{Card: card}, nil
}

func (s *Service) DiscardCard(ctx context.Context, req *DiscardReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.DiscardCard(id, req.Card); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) SwapDrawnCard(ctx context.Context, req *SwapReq) (*SwapRsp, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.uc.SwapDrawnCard(id, req.Card)
	if err != nil {
		return nil, err
	}
	return &SwapRsp{TakenCard: taken}, nil
}

func (s *Service) MeldCards(ctx context.Context, req *MeldReq) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.MeldCards(id, req.Cards); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) PassTurn(ctx context.Context, _ *Empty) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.PassTurn(id); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *Service) AbandonGame(ctx context.Context, _ *Empty) (*Empty, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.AbandonGame(id); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// GameScene 主动拉取当前视角快照, 供断线重连.
func (s *Service) GameScene(ctx context.Context, _ *Empty) (*push.GameState, error) {
	id, err := uid(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.GameScene(id)
}
