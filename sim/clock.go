package sim

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// 仿真时钟：单一逻辑 1Hz 节拍驱动全部步进器
// 引擎内的所有状态变更都发生在 Tick 回调或 Do 内，二者串行执行，
// 同一组件的两次节拍不会交叠

type Clock struct {
	mu       sync.Mutex
	now      time.Time
	interval time.Duration
	tick     int64
	subs     []*Ticker
}

// 一个注册在时钟上的步进器
type Ticker struct {
	name    string
	fn      func(now time.Time)
	stopped bool
}

// 停止步进器，只能在引擎回合内调用
func (t *Ticker) Stop() {
	t.stopped = true
}

func NewClock(start time.Time) *Clock {
	return &Clock{
		now:      start,
		interval: time.Second,
	}
}

// 注册步进器，只能在引擎回合内或启动前调用
func (c *Clock) Subscribe(name string, fn func(now time.Time)) *Ticker {
	t := &Ticker{name: name, fn: fn}
	c.subs = append(c.subs, t)
	return t
}

// 当前仿真时刻
func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) TickCount() int64 {
	return c.tick
}

// 推进一秒，按注册顺序执行所有存活的步进器
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.interval)
	c.tick++
	snapshot := make([]*Ticker, len(c.subs))
	copy(snapshot, c.subs)
	for _, t := range snapshot {
		if t.stopped {
			continue
		}
		t.fn(c.now)
	}
	// 清理已停止的步进器
	alive := c.subs[:0]
	for _, t := range c.subs {
		if !t.stopped {
			alive = append(alive, t)
		}
	}
	c.subs = alive
}

// 手动推进 n 秒，测试用
func (c *Clock) Step(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// 外部 goroutine 串行进入引擎
func (c *Clock) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// 实时运行，ctx 取消后退出
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	log.WithFields(log.Fields{"interval": c.interval}).Info("仿真时钟启动")
	for {
		select {
		case <-ctx.Done():
			log.Info("仿真时钟停止")
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}
