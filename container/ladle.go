package container

import (
	"math/rand"

	"lzsim/model"
	"lzsim/sim"
)

// 大包：一个炉次的运输容器，挂在回转台臂上
// 下达的流量会叠加湍流/过调/水口结瘤三种独立扰动

type LadleState int

const (
	LadleStateNew LadleState = iota
	LadleStateClosed
	LadleStateOpen
)

func (s LadleState) String() string {
	switch s {
	case LadleStateNew:
		return "New"
	case LadleStateClosed:
		return "Closed"
	case LadleStateOpen:
		return "Open"
	}
	return "Unknown"
}

type Ladle struct {
	*SteelContainer
	rng           *rand.Rand
	state         LadleState
	clogRemaining int
}

func NewLadle(clock *sim.Clock, details model.ContainerDetails, rng *rand.Rand) *Ladle {
	l := &Ladle{
		SteelContainer: NewSteelContainer(clock, details),
		rng:            rng,
		state:          LadleStateNew,
	}
	l.On(EventContainerEmptied, func(payload interface{}) {
		l.state = LadleStateClosed
	})
	return l
}

func (l *Ladle) State() LadleState {
	return l.state
}

// 每次调用独立施加扰动，最终流量不低于 10 kg/s
func (l *Ladle) SetFlowRate(r float64) {
	// 1. 湍流 ±5%
	r *= 1 + (l.rng.Float64()*0.1 - 0.05)
	// 2. 过调尖峰，5% 概率 ±15%
	if l.rng.Float64() < 0.05 {
		r *= 1 + (l.rng.Float64()*0.3 - 0.15)
	}
	// 3. 水口结瘤，2% 概率进入持续 3~6 次调用的堵塞
	if l.clogRemaining > 0 {
		r *= 0.3 + l.rng.Float64()*0.5
		l.clogRemaining--
	} else if l.rng.Float64() < 0.02 {
		l.clogRemaining = 3 + l.rng.Intn(4)
	}
	if r < 10 {
		r = 10
	}
	l.SteelContainer.SetFlowRate(r)
}

// 开浇：大包进入 Open 状态后回转台不允许回转
func (l *Ladle) PourAsync() <-chan struct{} {
	l.state = LadleStateOpen
	return l.SteelContainer.PourAsync()
}
