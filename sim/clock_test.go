package sim

import (
	"testing"
	"time"
)

func TestClock_Step(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	count := 0
	clock.Subscribe("counter", func(now time.Time) {
		count++
	})
	clock.Step(5)
	if count != 5 {
		t.Fatalf("步进次数错误: %d", count)
	}
	if clock.Now() != start.Add(5*time.Second) {
		t.Fatalf("仿真时刻错误: %v", clock.Now())
	}
}

func TestClock_TickerStop(t *testing.T) {
	clock := NewClock(time.Now())
	count := 0
	var tk *Ticker
	tk = clock.Subscribe("once", func(now time.Time) {
		count++
		tk.Stop()
	})
	clock.Step(3)
	if count != 1 {
		t.Fatalf("停止后仍被调用: %d", count)
	}
}

func TestClock_SubscribeDuringTick(t *testing.T) {
	clock := NewClock(time.Now())
	inner := 0
	clock.Subscribe("outer", func(now time.Time) {
		if inner == 0 {
			clock.Subscribe("inner", func(now time.Time) {
				inner++
			})
		}
	})
	clock.Step(3)
	// 第一拍注册，其后每拍执行
	if inner < 2 {
		t.Fatalf("节拍内注册的步进器未生效: %d", inner)
	}
}
