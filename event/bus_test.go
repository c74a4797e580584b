package event

import "testing"

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	var got []int
	bus.Subscribe("x", func(payload interface{}) {
		got = append(got, 1)
	})
	bus.Subscribe("x", func(payload interface{}) {
		got = append(got, 2)
	})
	bus.Publish("x", nil)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("回调顺序错误: %v", got)
	}
}

func TestBus_Cancel(t *testing.T) {
	bus := NewBus()
	count := 0
	token := bus.Subscribe("x", func(payload interface{}) {
		count++
	})
	bus.Publish("x", nil)
	token.Cancel()
	token.Cancel()
	bus.Publish("x", nil)
	if count != 1 {
		t.Fatalf("取消订阅后仍被调用: %d", count)
	}
}

func TestBus_Payload(t *testing.T) {
	bus := NewBus()
	var got interface{}
	bus.Subscribe("poured", func(payload interface{}) {
		got = payload
	})
	bus.Publish("poured", 42)
	if got != 42 {
		t.Fatalf("payload 错误: %v", got)
	}
}
