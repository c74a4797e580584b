package casting_machine

import (
	"time"
)

// 二冷区分段冷却控制：根据头尾位置和拉速给各段计算喷水流量
// 更新按 500ms 节流，且输入不变时不重算

const coolingThrottle = 500 * time.Millisecond

type CoolingSection struct {
	Id             int
	PositionFactor float64
	StartPosition  float64
	EndPosition    float64

	currentFlowLps float64
}

func (s *CoolingSection) CurrentFlowLps() float64 {
	return s.currentFlowLps
}

type CoolingSectionController struct {
	baseFlowLps     float64
	flowPerSpeedLps float64
	sections        []*CoolingSection

	hasUpdate  bool
	lastUpdate time.Time
	lastHead   float64
	lastTail   float64
	lastSpeed  float64
}

func NewCoolingSectionController(baseFlowLps, flowPerSpeedLps float64, sections []CoolingSection) *CoolingSectionController {
	c := &CoolingSectionController{
		baseFlowLps:     baseFlowLps,
		flowPerSpeedLps: flowPerSpeedLps,
	}
	for i := range sections {
		s := sections[i]
		c.sections = append(c.sections, &s)
	}
	return c
}

func (c *CoolingSectionController) Sections() []*CoolingSection {
	return c.sections
}

func (c *CoolingSectionController) SectionFlows() map[int]float64 {
	out := make(map[int]float64, len(c.sections))
	for _, s := range c.sections {
		out[s.Id] = s.currentFlowLps
	}
	return out
}

// 每次铸坯推进调用，内部自行节流
func (c *CoolingSectionController) Activate(headPos, tailPos, castSpeed float64, now time.Time) {
	if c.hasUpdate {
		if now.Sub(c.lastUpdate) < coolingThrottle {
			return
		}
		if headPos == c.lastHead && tailPos == c.lastTail && castSpeed == c.lastSpeed {
			return
		}
	}
	c.hasUpdate = true
	c.lastUpdate = now
	c.lastHead = headPos
	c.lastTail = tailPos
	c.lastSpeed = castSpeed

	for _, s := range c.sections {
		headInSection := headPos >= s.StartPosition
		tailStillInSection := tailPos > 0 && tailPos < s.EndPosition
		if headInSection || tailStillInSection {
			s.currentFlowLps = (c.baseFlowLps + c.flowPerSpeedLps*castSpeed) * s.PositionFactor
		} else {
			s.currentFlowLps = 0
		}
	}
}
