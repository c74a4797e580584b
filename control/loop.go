package control

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/sim"
)

// 流量控制回路：每秒读一次被控容器液位，经比例控制器修正上游流量
// 读到的总是最新状态，漏拍无碍

type Loop struct {
	name             string
	maxFlow          float64
	targetLevelMm    float64
	tolerancePercent float64

	level   func() float64
	flow    func() float64
	setFlow func(float64)
	active  func() bool

	ticker *sim.Ticker
}

func NewLoop(name string, maxFlow, targetLevelMm, tolerancePercent float64,
	level, flow func() float64, setFlow func(float64), active func() bool) *Loop {
	return &Loop{
		name:             name,
		maxFlow:          maxFlow,
		targetLevelMm:    targetLevelMm,
		tolerancePercent: tolerancePercent,
		level:            level,
		flow:             flow,
		setFlow:          setFlow,
		active:           active,
	}
}

func (l *Loop) Start(clock *sim.Clock) {
	if l.ticker != nil {
		return
	}
	log.WithFields(log.Fields{
		"loop":      l.name,
		"target_mm": l.targetLevelMm,
	}).Info("流量控制回路启动")
	l.ticker = clock.Subscribe(l.name, func(now time.Time) {
		if l.active != nil && !l.active() {
			return
		}
		next := ComputeFlowRate(l.level(), l.flow(), l.maxFlow, l.targetLevelMm, l.tolerancePercent)
		l.setFlow(next)
	})
}

func (l *Loop) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}
