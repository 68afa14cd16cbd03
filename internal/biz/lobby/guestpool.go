package lobby

import (
	"sync"

	"github.com/yola1107/conquian/pkg/codes"
)

// MaxGuests 同时在线的游客上限
const MaxGuests = 100

/*
	GuestPool 游客ID池. 游客用负ID与注册玩家区分,
	池子是后进先出: 刚释放的ID最先被复用.
	租约跟踪: 只有在租的ID才可归还, 防止同一ID被两条路径各还一次.
*/
type GuestPool struct {
	mu     sync.Mutex
	free   []int64
	leased map[int64]struct{}
}

func NewGuestPool() *GuestPool {
	p := &GuestPool{
		free:   make([]int64, 0, MaxGuests),
		leased: make(map[int64]struct{}, MaxGuests),
	}
	for i := MaxGuests; i >= 1; i-- {
		p.free = append(p.free, int64(-i))
	}
	return p
}

func (p *GuestPool) Acquire() (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return 0, codes.ErrorOperationFailed("guest pool exhausted (%d guests online)", MaxGuests)
	}
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.leased[id] = struct{}{}
	return id, nil
}

// Release 归还游客ID. 非在租的ID(含重复归还)会被忽略.
func (p *GuestPool) Release(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, held := p.leased[id]; !held {
		return
	}
	delete(p.leased, id)
	p.free = append(p.free, id)
}

func (p *GuestPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
