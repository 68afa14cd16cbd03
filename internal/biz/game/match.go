package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/internal/model"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/kratos/v2/log"
)

/*
	Match 两人对局状态机. 所有修改操作在 mu 下串行,
	同一房间两个玩家的并发请求不会同时观察到中间状态.

	守恒不变量: |stock| + |discard| + Σ|hands| + Σ|melds| == 40
*/

type Match struct {
	mu sync.Mutex

	roomCode   string
	gamemodeID int32
	players    [2]int64

	hands   map[int64][]int32
	stock   *model.Deck
	discard []int32 // 顶部 = 最后一个元素
	melds   map[int64][][]int32

	currentTurn     int64
	hasDrawn        bool
	drewFromDeck    bool
	drawnCard       int32 // 本回合从牌堆摸到的牌, 让过时原样弃出
	mustDiscard     bool
	reviewingID     int64 // 0 = 无人审查弃牌堆
	initialPassDone bool

	phase    Phase
	finished bool

	turnTimerID  int64
	graceTimerID int64
	tickTimerID  int64
	turnDeadline time.Time

	repo Repo
}

// NewMatch 创建对局: 洗牌, 每人发6张, 翻1张作弃牌堆种子, 余牌为牌堆.
// 首个操作玩家为 players[0].
func NewMatch(roomCode string, gamemodeID int32, players [2]int64, repo Repo) *Match {
	m := &Match{
		roomCode:   roomCode,
		gamemodeID: gamemodeID,
		players:    players,
		hands:      make(map[int64][]int32, 2),
		melds:      make(map[int64][][]int32, 2),
		stock:      model.NewDeck(),
		phase:      PhDealing,
		repo:       repo,
	}

	m.stock.Shuffle()
	for _, id := range players {
		m.hands[id] = m.stock.Deal(handSize)
		m.melds[id] = nil
	}
	m.discard = m.stock.Deal(1)
	m.currentTurn = players[0]
	m.phase = PhAwaitingDraw

	m.mu.Lock()
	m.armTurnTimer()
	m.tickTimerID = repo.GetTimer().Forever(timePushInterval, m.onTimeTick)
	m.pushStates()
	m.mu.Unlock()

	log.Infof("match created. %s", m.Desc())
	return m
}

func (m *Match) RoomCode() string  { return m.roomCode }
func (m *Match) GamemodeID() int32 { return m.gamemodeID }
func (m *Match) Players() [2]int64 { return m.players }

func (m *Match) HasPlayer(playerID int64) bool {
	return playerID == m.players[0] || playerID == m.players[1]
}

func (m *Match) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

func (m *Match) CurrentTurn() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTurn
}

func (m *Match) Desc() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("(room:%s mode:%d p:%v st:%v active:%d stock:%d discard:%d)",
		m.roomCode, m.gamemodeID, m.players, m.phase, m.currentTurn, m.stock.Remaining(), len(m.discard))
}

/*
	玩家操作
*/

// DrawFromDeck 从牌堆摸一张牌. 摸到的牌只回给摸牌者, 对手仅收到摸牌事件.
// 轮到自己且牌堆已空时触发流局终局.
func (m *Match) DrawFromDeck(playerID int64) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return 0, codes.ErrorOperationFailed("match %s already finished", m.roomCode)
	}

	err := validateDraw(drawContext{
		playerID:    playerID,
		currentTurn: m.currentTurn,
		reviewingID: m.reviewingID,
		hasDrawn:    m.hasDrawn,
		mustDiscard: m.mustDiscard,
		stockEmpty:  m.stock.IsEmpty(),
	})
	if codes.IsDeckEmpty(err) {
		// 摸牌时发现牌堆耗尽 => 流局
		m.sendAll(func(s push.Sink) error { return s.GameFinished(0, true) })
		m.finishLocked(m.players[0], m.players[1], true, endReasonDeckOut)
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	card, _ := m.stock.Draw()
	m.hands[playerID] = append(m.hands[playerID], card)
	m.hasDrawn = true
	m.drewFromDeck = true
	m.drawnCard = card
	m.reviewingID = playerID // 摸牌后可审查弃牌堆顶, 决定是否换牌
	m.initialPassDone = true // 首手让过窗口随第一次摸牌关闭
	m.phase = PhAwaitingDiscard
	m.armTurnTimer()

	m.send(m.opponent(playerID), func(s push.Sink) error { return s.OpponentDrewFromDeck() })
	m.pushStates()
	return card, nil
}

// DiscardCard 弃一张手牌并把回合交给对手. 弃到0张即获胜.
func (m *Match) DiscardCard(playerID int64, cardID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return codes.ErrorOperationFailed("match %s already finished", m.roomCode)
	}
	if err := validateTurnOwner(playerID, m.currentTurn); err != nil {
		return err
	}
	if cardID == 0 {
		return codes.ErrorGameRuleViolation("no card supplied to discard")
	}
	if !m.removeFromHand(playerID, cardID) {
		return codes.ErrorInvalidCardAction("card %s is not in player %d's hand", model.CardString(cardID), playerID)
	}

	m.discard = append(m.discard, cardID)
	opponent := m.opponent(playerID)
	m.send(opponent, func(s push.Sink) error { return s.OpponentDiscarded(cardID) })

	if len(m.hands[playerID]) == 0 {
		m.sendAll(func(s push.Sink) error { return s.GameFinished(playerID, false) })
		m.finishLocked(playerID, opponent, false, endReasonWin)
		return nil
	}

	m.advanceTurn()
	m.pushStates()
	return nil
}

// SwapDrawnCard 弃一张手牌换取弃牌堆顶的牌. 仅在本回合从牌堆摸过牌且
// 仍处于审查窗口时允许, 成功后回合交给对手.
func (m *Match) SwapDrawnCard(playerID int64, cardIDToDiscard int32) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return 0, codes.ErrorOperationFailed("match %s already finished", m.roomCode)
	}

	err := validateSwap(swapContext{
		playerID:     playerID,
		currentTurn:  m.currentTurn,
		reviewingID:  m.reviewingID,
		drewFromDeck: m.drewFromDeck,
		mustDiscard:  m.mustDiscard,
		discardCard:  cardIDToDiscard,
		discardEmpty: len(m.discard) == 0,
	})
	if err != nil {
		return 0, err
	}
	if !m.removeFromHand(playerID, cardIDToDiscard) {
		return 0, codes.ErrorInvalidCardAction("card %s is not in player %d's hand", model.CardString(cardIDToDiscard), playerID)
	}

	top := m.discard[len(m.discard)-1]
	m.discard = m.discard[:len(m.discard)-1]
	m.hands[playerID] = append(m.hands[playerID], top)
	m.discard = append(m.discard, cardIDToDiscard)

	m.send(m.opponent(playerID), func(s push.Sink) error { return s.OpponentDiscarded(cardIDToDiscard) })
	m.advanceTurn()
	m.pushStates()
	return top, nil
}

// ProcessPlayerMove 组牌. cardIDs 必须全部来自当前手牌且满足组合规则.
// 组牌成功不移交回合; 手牌清空即获胜.
func (m *Match) ProcessPlayerMove(playerID int64, cardIDs []int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return codes.ErrorOperationFailed("match %s already finished", m.roomCode)
	}
	if err := validateTurnOwner(playerID, m.currentTurn); err != nil {
		return err
	}
	if err := validateActionAllowed(m.mustDiscard); err != nil {
		return err
	}
	if err := validateMoveInputs(cardIDs); err != nil {
		return err
	}

	resolved := m.resolveCards(playerID, cardIDs)
	if len(resolved) != len(cardIDs) {
		return codes.ErrorGameRuleViolation("requested %d cards, resolved %d in hand", len(cardIDs), len(resolved))
	}
	if err := validateMeldSize(len(resolved)); err != nil {
		return err
	}
	if !model.IsValidMeld(resolved) {
		return codes.ErrorInvalidMeld("cards %v form neither a tercia nor a corrida", resolved)
	}

	for _, c := range resolved {
		m.removeFromHand(playerID, c)
	}
	group := make([]int32, len(resolved))
	copy(group, resolved)
	m.melds[playerID] = append(m.melds[playerID], group)

	if len(m.hands[playerID]) == 0 {
		m.sendAll(func(s push.Sink) error { return s.GameFinished(playerID, false) })
		m.finishLocked(playerID, m.opponent(playerID), false, endReasonWin)
		return nil
	}

	// 组牌后回合继续, 但已摸牌的玩家只能以弃牌收尾
	if m.hasDrawn {
		m.mustDiscard = true
		m.reviewingID = 0
	}
	m.armTurnTimer()
	m.pushStates()
	return nil
}

// PassTurn 让过. 两处有效: 开局首手(未摸牌)让过一次, 将回合交给对手;
// 摸牌后的换牌窗口内让过, 摸到的牌原样弃出并移交回合.
// 其余情况下静默忽略, 容忍客户端重复消息.
func (m *Match) PassTurn(playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished || playerID != m.currentTurn {
		return nil
	}

	if !m.initialPassDone && !m.hasDrawn {
		m.initialPassDone = true
		m.advanceTurn()
		m.pushStates()
		return nil
	}

	if m.drewFromDeck && m.reviewingID == playerID && !m.mustDiscard && m.drawnCard != 0 {
		card := m.drawnCard
		if m.removeFromHand(playerID, card) {
			m.discard = append(m.discard, card)
			m.send(m.opponent(playerID), func(s push.Sink) error { return s.OpponentDiscarded(card) })
			m.advanceTurn()
			m.pushStates()
		}
		return nil
	}
	return nil
}

// Abandon 玩家放弃对局(断线或主动退出), 对手直接获胜.
// 对已结束的对局重复调用是无害的空操作.
func (m *Match) Abandon(playerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished || !m.HasPlayer(playerID) {
		return
	}
	winner := m.opponent(playerID)
	m.send(winner, func(s push.Sink) error { return s.GameEndedByAbandonment() })
	m.finishLocked(winner, playerID, false, endReasonAbandon)
}

// stop 撤销一局尚未登记成功的对局: 只取消定时器, 不走终局流程.
func (m *Match) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	m.finished = true
	m.phase = PhFinished

	t := m.repo.GetTimer()
	t.Cancel(m.turnTimerID)
	t.Cancel(m.graceTimerID)
	t.Cancel(m.tickTimerID)
}

// State 生成 viewer 视角的对局快照.
func (m *Match) State(viewerID int64) *push.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateFor(viewerID)
}

/*
	内部逻辑. 以下方法都要求持有 m.mu.
*/

func (m *Match) opponent(playerID int64) int64 {
	if playerID == m.players[0] {
		return m.players[1]
	}
	return m.players[0]
}

func (m *Match) removeFromHand(playerID int64, card int32) bool {
	hand := m.hands[playerID]
	for i, c := range hand {
		if c == card {
			m.hands[playerID] = append(hand[:i], hand[i+1:]...)
			return true
		}
	}
	return false
}

// 按手牌逐一解析, 同一张牌不会被解析两次.
func (m *Match) resolveCards(playerID int64, cardIDs []int32) []int32 {
	remaining := make([]int32, len(m.hands[playerID]))
	copy(remaining, m.hands[playerID])

	resolved := make([]int32, 0, len(cardIDs))
	for _, id := range cardIDs {
		for i, c := range remaining {
			if c == id {
				resolved = append(resolved, c)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return resolved
}

func (m *Match) advanceTurn() {
	m.currentTurn = m.opponent(m.currentTurn)
	m.hasDrawn = false
	m.drewFromDeck = false
	m.drawnCard = 0
	m.mustDiscard = false
	m.reviewingID = 0
	m.phase = PhAwaitingDraw
	m.armTurnTimer()
}

func (m *Match) armTurnTimer() {
	t := m.repo.GetTimer()
	t.Cancel(m.turnTimerID)
	t.Cancel(m.graceTimerID)
	d := TurnTimeout(m.gamemodeID)
	m.turnDeadline = time.Now().Add(d)
	m.turnTimerID = t.Once(d, m.onTurnTimeout)
}

func (m *Match) onTurnTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	m.graceTimerID = m.repo.GetTimer().Once(afkGraceDelay, m.onAFKExpired)
}

func (m *Match) onAFKExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	afk := m.currentTurn
	winner := m.opponent(afk)
	reason := fmt.Sprintf("player %d idle past the turn limit", afk)
	m.sendAll(func(s push.Sink) error { return s.GameEndedByAFK(reason) })
	m.finishLocked(winner, afk, false, endReasonAFK)
}

func (m *Match) onTimeTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	remaining := int64(time.Until(m.turnDeadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	m.sendAll(func(s push.Sink) error { return s.TimeUpdated(remaining) })
}

// finishLocked 终局收尾: 状态转移完成后才触达外部协作者, 且仅一次.
func (m *Match) finishLocked(winnerID, loserID int64, isDraw bool, reason string) {
	if m.finished {
		return
	}
	m.finished = true
	m.phase = PhFinished

	t := m.repo.GetTimer()
	t.Cancel(m.turnTimerID)
	t.Cancel(m.graceTimerID)
	t.Cancel(m.tickTimerID)

	log.Infof("match finished. room:%s winner:%d loser:%d draw:%v reason:%s",
		m.roomCode, winnerID, loserID, isDraw, reason)

	m.repo.RecordResult(m.roomCode, winnerID, loserID, isDraw)
	m.repo.OnMatchFinished(m.roomCode)
}

func (m *Match) stateFor(viewerID int64) *push.GameState {
	opponent := m.opponent(viewerID)
	hand := make([]int32, len(m.hands[viewerID]))
	copy(hand, m.hands[viewerID])

	melds := make(map[int64][][]int32, len(m.melds))
	for id, groups := range m.melds {
		cp := make([][]int32, len(groups))
		for i, g := range groups {
			gc := make([]int32, len(g))
			copy(gc, g)
			cp[i] = gc
		}
		melds[id] = cp
	}

	var top int32
	if len(m.discard) > 0 {
		top = m.discard[len(m.discard)-1]
	}
	remaining := int64(time.Until(m.turnDeadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	return &push.GameState{
		RoomCode:      m.roomCode,
		Phase:         int32(m.phase),
		CurrentTurn:   m.currentTurn,
		Hand:          hand,
		OpponentID:    opponent,
		OpponentCards: int32(len(m.hands[opponent])),
		DiscardTop:    top,
		DiscardCount:  int32(len(m.discard)),
		StockCount:    int32(m.stock.Remaining()),
		Melds:         melds,
		HasDrawn:      m.hasDrawn,
		MustDiscard:   m.mustDiscard,
		RemainingSec:  remaining,
	}
}

func (m *Match) send(playerID int64, fn func(push.Sink) error) {
	sink := m.repo.GetSink(playerID)
	if sink == nil {
		return
	}
	if err := fn(sink); err != nil {
		log.Warnf("push to player %d failed, dropping sink: %v", playerID, err)
		m.repo.DropSink(playerID)
	}
}

func (m *Match) sendAll(fn func(push.Sink) error) {
	for _, id := range m.players {
		m.send(id, fn)
	}
}

func (m *Match) pushStates() {
	for _, id := range m.players {
		st := m.stateFor(id)
		m.send(id, func(s push.Sink) error { return s.GameStateUpdated(st) })
	}
}

// cardCount 当前在局的总牌数, 用于守恒校验.
func (m *Match) cardCount() int {
	total := m.stock.Remaining() + len(m.discard)
	for _, h := range m.hands {
		total += len(h)
	}
	for _, groups := range m.melds {
		for _, g := range groups {
			total += len(g)
		}
	}
	return total
}
