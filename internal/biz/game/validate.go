package game

import (
	"github.com/yola1107/conquian/internal/model"
	"github.com/yola1107/conquian/pkg/codes"
)

/*
	规则校验. 全部为无副作用的纯函数: 校验先于一切状态变更,
	失败返回闭集内的标记错误, 不改动任何字段.
*/

func validateTurnOwner(playerID, currentTurn int64) error {
	if playerID != currentTurn {
		return codes.ErrorNotYourTurn("player %d acted out of turn (current %d)", playerID, currentTurn)
	}
	return nil
}

func validateActionAllowed(mustDiscard bool) error {
	if mustDiscard {
		return codes.ErrorMustDiscardToFinish("a discard is pending before the turn can end")
	}
	return nil
}

// 组牌请求至少要指出2张牌, 校验上限交给组合规则.
func validateMoveInputs(cardIDs []int32) error {
	if len(cardIDs) < 2 {
		return codes.ErrorGameRuleViolation("a meld move needs at least 2 card ids, got %d", len(cardIDs))
	}
	return nil
}

func validateMeldSize(count int) error {
	if count < model.MinMeldSize {
		return codes.ErrorInvalidMeld("a meld needs at least %d cards, got %d", model.MinMeldSize, count)
	}
	return nil
}

type drawContext struct {
	playerID    int64
	currentTurn int64
	reviewingID int64
	hasDrawn    bool
	mustDiscard bool
	stockEmpty  bool
}

// 顺序固定: 回合归属 -> 重复摸牌 -> 待弃牌 -> 弃牌堆审查中 -> 牌堆耗尽.
func validateDraw(c drawContext) error {
	if err := validateTurnOwner(c.playerID, c.currentTurn); err != nil {
		return err
	}
	if c.hasDrawn {
		return codes.ErrorAlreadyDrawn("player %d already drew this turn", c.playerID)
	}
	if err := validateActionAllowed(c.mustDiscard); err != nil {
		return err
	}
	if c.reviewingID != 0 && c.reviewingID != c.playerID {
		return codes.ErrorPendingDiscardAction("player %d is reviewing the discard pile", c.reviewingID)
	}
	if c.stockEmpty {
		return codes.ErrorDeckEmpty("the stock pile is exhausted")
	}
	return nil
}

type swapContext struct {
	playerID     int64
	currentTurn  int64
	reviewingID  int64
	drewFromDeck bool
	mustDiscard  bool
	discardCard  int32
	discardEmpty bool
}

func validateSwap(c swapContext) error {
	if err := validateTurnOwner(c.playerID, c.currentTurn); err != nil {
		return err
	}
	if !c.drewFromDeck || c.playerID != c.reviewingID {
		return codes.ErrorInvalidCardAction("player %d has no drawn card to swap", c.playerID)
	}
	if err := validateActionAllowed(c.mustDiscard); err != nil {
		return err
	}
	if c.discardCard == 0 {
		return codes.ErrorGameRuleViolation("no discard target card supplied")
	}
	if c.discardEmpty {
		return codes.ErrorEmptyDiscard("the discard pile is empty")
	}
	return nil
}
