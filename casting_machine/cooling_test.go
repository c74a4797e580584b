package casting_machine

import (
	"math"
	"testing"
	"time"
)

func testCoolingController() *CoolingSectionController {
	return NewCoolingSectionController(10, 2, []CoolingSection{
		{Id: 1, PositionFactor: 1.0, StartPosition: 0, EndPosition: 5},
		{Id: 2, PositionFactor: 0.8, StartPosition: 5, EndPosition: 12},
		{Id: 3, PositionFactor: 0.5, StartPosition: 12, EndPosition: 20},
	})
}

func TestCooling_HeadActivation(t *testing.T) {
	c := testCoolingController()
	now := time.Now()
	c.Activate(6, 0, 3, now)
	flows := c.SectionFlows()
	// (10 + 2*3) * factor
	if math.Abs(flows[1]-16) > 1e-9 {
		t.Fatalf("段1流量错误: %f", flows[1])
	}
	if math.Abs(flows[2]-12.8) > 1e-9 {
		t.Fatalf("段2流量错误: %f", flows[2])
	}
	// 头部未到段3
	if flows[3] != 0 {
		t.Fatalf("段3不应喷水: %f", flows[3])
	}
}

func TestCooling_TailActivation(t *testing.T) {
	c := testCoolingController()
	c.Activate(25, 6, 3, time.Now())
	flows := c.SectionFlows()
	// 尾部已过段1
	if flows[2] == 0 || flows[3] == 0 {
		t.Fatalf("尾部所在段应喷水: %v", flows)
	}
}

func TestCooling_Throttle(t *testing.T) {
	c := testCoolingController()
	now := time.Now()
	c.Activate(6, 0, 3, now)
	// 500ms 内的更新被节流
	c.Activate(20, 0, 3, now.Add(100*time.Millisecond))
	if c.SectionFlows()[3] != 0 {
		t.Fatalf("节流期内不应重算")
	}
	c.Activate(20, 0, 3, now.Add(time.Second))
	if c.SectionFlows()[3] == 0 {
		t.Fatalf("节流期外应重算")
	}
}

func TestCooling_UnchangedInputSkipped(t *testing.T) {
	c := testCoolingController()
	now := time.Now()
	c.Activate(6, 0, 3, now)
	first := c.lastUpdate
	c.Activate(6, 0, 3, now.Add(time.Second))
	if c.lastUpdate != first {
		t.Fatalf("输入不变不应更新")
	}
}
