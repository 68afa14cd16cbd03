package timer

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RussellLuo/timingwheel"
	"github.com/panjf2000/ants/v2"
	"github.com/yola1107/kratos/v2/log"
)

/*
	时间轮调度器. 回调统一经协程池异步执行.
*/

// Scheduler 定时任务调度器接口
type Scheduler interface {
	Len() int                                       // 当前注册任务数量
	Once(delay time.Duration, f func()) int64       // 注册一次性任务
	Forever(interval time.Duration, f func()) int64 // 注册周期任务
	Cancel(taskID int64)                            // 取消指定任务
	CancelAll()                                     // 取消所有任务
	Stop()                                          // 停止调度器
}

const (
	defaultTick      = 100 * time.Millisecond
	defaultWheelSize = 512
)

type wheelScheduler struct {
	tw   *timingwheel.TimingWheel
	pool *ants.Pool

	mu    sync.Mutex
	seq   atomic.Int64
	tasks map[int64]*timingwheel.Timer
}

// NewScheduler 创建调度器并启动时间轮. poolSize 为回调协程池容量.
func NewScheduler(poolSize int) (Scheduler, error) {
	pool, err := ants.NewPool(poolSize, ants.WithExpiryDuration(60*time.Second))
	if err != nil {
		return nil, err
	}
	s := &wheelScheduler{
		tw:    timingwheel.NewTimingWheel(defaultTick, defaultWheelSize),
		pool:  pool,
		tasks: make(map[int64]*timingwheel.Timer),
	}
	s.tw.Start()
	return s, nil
}

func (s *wheelScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *wheelScheduler) Once(delay time.Duration, f func()) int64 {
	id := s.seq.Add(1)
	s.mu.Lock()
	s.tasks[id] = s.tw.AfterFunc(delay, func() {
		s.remove(id)
		s.execute(f)
	})
	s.mu.Unlock()
	return id
}

func (s *wheelScheduler) Forever(interval time.Duration, f func()) int64 {
	id := s.seq.Add(1)
	var arm func(first bool)
	arm = func(first bool) {
		s.mu.Lock()
		if _, alive := s.tasks[id]; !alive && !first {
			s.mu.Unlock()
			return
		}
		s.tasks[id] = s.tw.AfterFunc(interval, func() {
			s.execute(f)
			arm(false)
		})
		s.mu.Unlock()
	}
	arm(true)
	return id
}

func (s *wheelScheduler) Cancel(taskID int64) {
	s.mu.Lock()
	t, ok := s.tasks[taskID]
	if ok {
		delete(s.tasks, taskID)
	}
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}

func (s *wheelScheduler) CancelAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = make(map[int64]*timingwheel.Timer)
	s.mu.Unlock()
	for _, t := range tasks {
		t.Stop()
	}
}

func (s *wheelScheduler) Stop() {
	s.CancelAll()
	s.tw.Stop()
	s.pool.Release()
}

func (s *wheelScheduler) remove(id int64) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}

func (s *wheelScheduler) execute(f func()) {
	run := func() {
		defer func() {
			if e := recover(); e != nil {
				log.Errorf("timer task panic: %v\n%s", e, debug.Stack())
			}
		}()
		f()
	}
	if err := s.pool.Submit(run); err != nil {
		go run()
	}
}
