package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yola1107/conquian/internal/biz/push"
	"github.com/yola1107/conquian/internal/model"
	"github.com/yola1107/conquian/pkg/codes"
	"github.com/yola1107/conquian/pkg/timer"
)

/*
	测试替身: 手动触发的调度器 + 记录事件的推送通道.
*/

type fakeTask struct {
	delay    time.Duration
	f        func()
	periodic bool
}

type fakeScheduler struct {
	mu    sync.Mutex
	seq   int64
	tasks map[int64]*fakeTask
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{tasks: make(map[int64]*fakeTask)}
}

func (s *fakeScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *fakeScheduler) Once(delay time.Duration, f func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks[s.seq] = &fakeTask{delay: delay, f: f}
	return s.seq
}

func (s *fakeScheduler) Forever(interval time.Duration, f func()) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks[s.seq] = &fakeTask{delay: interval, f: f, periodic: true}
	return s.seq
}

func (s *fakeScheduler) Cancel(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
}

func (s *fakeScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[int64]*fakeTask)
}

func (s *fakeScheduler) Stop() { s.CancelAll() }

// firePending 模拟当前所有一次性任务到期(执行前摘除).
func (s *fakeScheduler) firePending() {
	s.mu.Lock()
	var fs []func()
	for id, t := range s.tasks {
		if !t.periodic {
			fs = append(fs, t.f)
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

var _ timer.Scheduler = (*fakeScheduler)(nil)

type fakeSink struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (s *fakeSink) record(ev string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("peer gone")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeSink) has(ev string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e == ev {
			return true
		}
	}
	return false
}

func (s *fakeSink) GameStateUpdated(*push.GameState) error  { return s.record("GameStateUpdated") }
func (s *fakeSink) OpponentDrewFromDeck() error             { return s.record("OpponentDrewFromDeck") }
func (s *fakeSink) OpponentDiscarded(int32) error           { return s.record("OpponentDiscarded") }
func (s *fakeSink) TimeUpdated(int64) error                 { return s.record("TimeUpdated") }
func (s *fakeSink) GameEndedByAbandonment() error           { return s.record("GameEndedByAbandonment") }
func (s *fakeSink) GameEndedByAFK(string) error             { return s.record("GameEndedByAFK") }
func (s *fakeSink) GameFinished(int64, bool) error          { return s.record("GameFinished") }
func (s *fakeSink) PlayerJoined(*push.LobbyPlayer) error    { return s.record("PlayerJoined") }
func (s *fakeSink) PlayerLeft(int64) error                  { return s.record("PlayerLeft") }
func (s *fakeSink) LobbyClosed(string) error                { return s.record("LobbyClosed") }
func (s *fakeSink) GamemodeChanged(int32) error             { return s.record("GamemodeChanged") }
func (s *fakeSink) GameStarted(string) error                { return s.record("GameStarted") }
func (s *fakeSink) LobbyChat(int64, string) error           { return s.record("LobbyChat") }
func (s *fakeSink) FriendStatusChanged(int64, int32) error  { return s.record("FriendStatusChanged") }
func (s *fakeSink) NewFriendRequest(int64) error            { return s.record("NewFriendRequest") }
func (s *fakeSink) FriendListUpdate() error                 { return s.record("FriendListUpdate") }
func (s *fakeSink) InvitationReceived(int64, string) error  { return s.record("InvitationReceived") }

type matchResult struct {
	code           string
	winner, loser  int64
	draw           bool
}

type fakeRepo struct {
	sched *fakeScheduler

	mu       sync.Mutex
	sinks    map[int64]*fakeSink
	dropped  []int64
	results  []matchResult
	finished []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sched: newFakeScheduler(),
		sinks: make(map[int64]*fakeSink),
	}
}

func (r *fakeRepo) addSink(playerID int64) *fakeSink {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &fakeSink{}
	r.sinks[playerID] = s
	return s
}

func (r *fakeRepo) GetTimer() timer.Scheduler { return r.sched }

func (r *fakeRepo) GetSink(playerID int64) push.Sink {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sinks[playerID]; ok {
		return s
	}
	return nil
}

func (r *fakeRepo) DropSink(playerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, playerID)
	r.dropped = append(r.dropped, playerID)
}

func (r *fakeRepo) RecordResult(roomCode string, winnerID, loserID int64, isDraw bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, matchResult{code: roomCode, winner: winnerID, loser: loserID, draw: isDraw})
}

func (r *fakeRepo) OnMatchFinished(roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, roomCode)
}

func newTestMatch(t *testing.T) (*Match, *fakeRepo, *fakeSink, *fakeSink) {
	t.Helper()
	repo := newFakeRepo()
	s1 := repo.addSink(1)
	s2 := repo.addSink(2)
	m := NewMatch("ABCDE", GamemodeClassic, [2]int64{1, 2}, repo)
	return m, repo, s1, s2
}

/*
	用例
*/

func TestNewMatchDeal(t *testing.T) {
	m, _, s1, s2 := newTestMatch(t)

	require.Len(t, m.hands[1], handSize)
	require.Len(t, m.hands[2], handSize)
	require.Len(t, m.discard, 1)
	require.Equal(t, model.DeckSize-2*handSize-1, m.stock.Remaining())
	require.Equal(t, model.DeckSize, m.cardCount())

	require.Equal(t, int64(1), m.CurrentTurn())
	require.Equal(t, PhAwaitingDraw, m.phase)
	require.True(t, s1.has("GameStateUpdated"))
	require.True(t, s2.has("GameStateUpdated"))
}

func TestDrawValidation(t *testing.T) {
	m, _, _, s2 := newTestMatch(t)

	_, err := m.DrawFromDeck(2)
	require.True(t, codes.IsNotYourTurn(err))

	card, err := m.DrawFromDeck(1)
	require.NoError(t, err)
	require.True(t, model.ValidCard(card))
	require.Len(t, m.hands[1], handSize+1)
	require.True(t, m.hasDrawn)
	require.True(t, s2.has("OpponentDrewFromDeck"))
	require.Equal(t, model.DeckSize, m.cardCount())

	_, err = m.DrawFromDeck(1)
	require.True(t, codes.IsAlreadyDrawn(err))
}

func TestDiscardAdvancesTurn(t *testing.T) {
	m, _, _, s2 := newTestMatch(t)

	card, err := m.DrawFromDeck(1)
	require.NoError(t, err)
	require.NoError(t, m.DiscardCard(1, card))

	require.Equal(t, int64(2), m.CurrentTurn())
	require.Equal(t, PhAwaitingDraw, m.phase)
	require.False(t, m.hasDrawn)
	require.False(t, m.mustDiscard)
	require.Equal(t, card, m.discard[len(m.discard)-1])
	require.True(t, s2.has("OpponentDiscarded"))
	require.Equal(t, model.DeckSize, m.cardCount())
}

func TestDiscardNotInHand(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	// 对手的牌一定不在自己手里
	foreign := m.hands[2][0]
	err := m.DiscardCard(1, foreign)
	require.True(t, codes.IsInvalidCardAction(err))
	require.Equal(t, int64(1), m.CurrentTurn())
}

func TestSwapDrawnCard(t *testing.T) {
	m, _, _, s2 := newTestMatch(t)
	oldTop := m.discard[len(m.discard)-1]

	card, err := m.DrawFromDeck(1)
	require.NoError(t, err)

	taken, err := m.SwapDrawnCard(1, card)
	require.NoError(t, err)
	require.Equal(t, oldTop, taken)
	require.Equal(t, card, m.discard[len(m.discard)-1])
	require.Len(t, m.hands[1], handSize+1)
	require.Equal(t, int64(2), m.CurrentTurn())
	require.True(t, s2.has("OpponentDiscarded"))
	require.Equal(t, model.DeckSize, m.cardCount())
}

func TestSwapWithoutDraw(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	_, err := m.SwapDrawnCard(1, m.hands[1][0])
	require.True(t, codes.IsInvalidCardAction(err))
}

func TestMeldWin(t *testing.T) {
	m, repo, s1, s2 := newTestMatch(t)

	m.hands[1] = []int32{107, 207, 307}
	require.NoError(t, m.ProcessPlayerMove(1, []int32{107, 207, 307}))

	require.True(t, m.Finished())
	require.Equal(t, PhFinished, m.phase)
	require.True(t, s1.has("GameFinished"))
	require.True(t, s2.has("GameFinished"))

	require.Len(t, repo.results, 1)
	require.Equal(t, matchResult{code: "ABCDE", winner: 1, loser: 2}, repo.results[0])
	require.Equal(t, []string{"ABCDE"}, repo.finished)

	// 终局后的操作与重复终局都被拒绝
	m.Abandon(2)
	require.Len(t, repo.results, 1)
	err := m.DiscardCard(2, m.hands[2][0])
	require.True(t, codes.IsOperationFailed(err))
}

func TestMeldKeepsTurnAndForcesDiscard(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	_, err := m.DrawFromDeck(1)
	require.NoError(t, err)

	// 组一组corrida, 留下多余手牌
	m.hands[1] = []int32{407, 410, 411, 101, 202}
	require.NoError(t, m.ProcessPlayerMove(1, []int32{407, 410, 411}))

	require.False(t, m.Finished())
	require.Equal(t, int64(1), m.CurrentTurn())
	require.True(t, m.mustDiscard)
	require.Equal(t, [][]int32{{407, 410, 411}}, m.melds[1])

	// 待弃牌时不能再组牌
	err = m.ProcessPlayerMove(1, []int32{101, 202})
	require.True(t, codes.IsMustDiscardToFinish(err))

	// 弃牌收尾
	require.NoError(t, m.DiscardCard(1, 101))
	require.Equal(t, int64(2), m.CurrentTurn())
}

func TestMeldRejections(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	err := m.ProcessPlayerMove(1, []int32{101})
	require.True(t, codes.IsGameRuleViolation(err))

	// 不在手里的牌
	err = m.ProcessPlayerMove(1, []int32{m.hands[2][0], m.hands[2][1], m.hands[2][2]})
	require.True(t, codes.IsGameRuleViolation(err))

	// 手里的牌但不成组
	m.hands[1] = []int32{101, 202, 303, 404, 105, 206}
	err = m.ProcessPlayerMove(1, []int32{101, 202, 303})
	require.True(t, codes.IsInvalidMeld(err))
}

func TestInitialPassOnlyOnce(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	require.NoError(t, m.PassTurn(1))
	require.Equal(t, int64(2), m.CurrentTurn())

	// 首手让过只有一次
	require.NoError(t, m.PassTurn(2))
	require.Equal(t, int64(2), m.CurrentTurn())
}

func TestPassAfterDrawDiscardsDrawnCard(t *testing.T) {
	m, _, _, s2 := newTestMatch(t)

	card, err := m.DrawFromDeck(1)
	require.NoError(t, err)

	// 换牌窗口内让过: 摸到的牌原样弃出, 回合移交
	require.NoError(t, m.PassTurn(1))
	require.Equal(t, int64(2), m.CurrentTurn())
	require.Equal(t, card, m.discard[len(m.discard)-1])
	require.Len(t, m.hands[1], handSize)
	require.True(t, s2.has("OpponentDiscarded"))
	require.Equal(t, model.DeckSize, m.cardCount())
}

func TestPassIgnoredWhenDiscardPending(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	_, err := m.DrawFromDeck(1)
	require.NoError(t, err)

	m.hands[1] = []int32{407, 410, 411, 101, 202}
	require.NoError(t, m.ProcessPlayerMove(1, []int32{407, 410, 411}))
	require.True(t, m.mustDiscard)

	// 组牌后必须弃牌收尾, 让过无效
	require.NoError(t, m.PassTurn(1))
	require.Equal(t, int64(1), m.CurrentTurn())
	require.True(t, m.mustDiscard)
}

func TestDeckExhaustionEndsInDraw(t *testing.T) {
	m, repo, s1, s2 := newTestMatch(t)

	for !m.stock.IsEmpty() {
		m.stock.Draw()
	}

	_, err := m.DrawFromDeck(1)
	require.True(t, codes.IsDeckEmpty(err))
	require.True(t, m.Finished())
	require.True(t, s1.has("GameFinished"))
	require.True(t, s2.has("GameFinished"))

	require.Len(t, repo.results, 1)
	require.True(t, repo.results[0].draw)
}

func TestAFKTimeout(t *testing.T) {
	m, repo, s1, s2 := newTestMatch(t)

	repo.sched.firePending() // 回合超时, 进入宽限
	require.False(t, m.Finished())

	repo.sched.firePending() // 宽限到期, 判挂机
	require.True(t, m.Finished())
	require.True(t, s1.has("GameEndedByAFK"))
	require.True(t, s2.has("GameEndedByAFK"))

	require.Len(t, repo.results, 1)
	require.Equal(t, int64(2), repo.results[0].winner)
	require.Equal(t, int64(1), repo.results[0].loser)
}

func TestActionCancelsAFKGrace(t *testing.T) {
	m, repo, _, _ := newTestMatch(t)

	repo.sched.firePending() // 回合超时, 宽限已挂起

	// 宽限期内摸牌会重置回合计时, 旧的宽限任务被取消
	_, err := m.DrawFromDeck(1)
	require.NoError(t, err)

	repo.sched.firePending()
	require.False(t, m.Finished())
}

func TestAbandonIdempotent(t *testing.T) {
	m, repo, s1, _ := newTestMatch(t)

	m.Abandon(2)
	require.True(t, m.Finished())
	require.True(t, s1.has("GameEndedByAbandonment"))
	require.Len(t, repo.results, 1)
	require.Equal(t, int64(1), repo.results[0].winner)

	m.Abandon(2)
	m.Abandon(1)
	require.Len(t, repo.results, 1)

	// 局外人无效
	m2, repo2, _, _ := newTestMatch(t)
	m2.Abandon(99)
	require.False(t, m2.Finished())
	require.Empty(t, repo2.results)
}

func TestSinkPrunedOnPushFailure(t *testing.T) {
	m, repo, _, s2 := newTestMatch(t)

	s2.mu.Lock()
	s2.fail = true
	s2.mu.Unlock()

	require.NoError(t, m.PassTurn(1))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Contains(t, repo.dropped, int64(2))
}

func TestRegistryCreateConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.addSink(1)
	repo.addSink(2)
	r := NewRegistry()

	m, err := r.Create("ABCDE", GamemodeClassic, [2]int64{1, 2}, repo)
	require.NoError(t, err)

	_, err = r.Create("ABCDE", GamemodeClassic, [2]int64{1, 2}, repo)
	require.True(t, codes.IsOperationFailed(err))

	// 首局保持登记, 败者的定时器全部撤销
	got, ok := r.Get("ABCDE")
	require.True(t, ok)
	require.Same(t, m, got)
	require.Equal(t, 2, repo.sched.Len())
	require.Empty(t, repo.results)
}

func TestStateForViewer(t *testing.T) {
	m, _, _, _ := newTestMatch(t)

	st := m.State(1)
	require.Equal(t, "ABCDE", st.RoomCode)
	require.Equal(t, int64(1), st.CurrentTurn)
	require.Len(t, st.Hand, handSize)
	require.Equal(t, int64(2), st.OpponentID)
	require.Equal(t, int32(handSize), st.OpponentCards)
	require.Equal(t, int32(model.DeckSize-2*handSize-1), st.StockCount)
	require.Equal(t, int32(1), st.DiscardCount)
	require.Equal(t, m.discard[0], st.DiscardTop)
	require.False(t, st.HasDrawn)
	require.Positive(t, st.RemainingSec)
}
