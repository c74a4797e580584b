package container

import (
	"math/rand"
	"time"

	"lzsim/model"
	"lzsim/sim"
)

// 中间包：大包与结晶器之间的缓冲容器，平滑流量并混合相邻炉次
// 在基类之上增加一个带噪声的标量温度

const (
	DefaultTundishWidthMeters      = 3.876
	DefaultTundishDepthMeters      = 1.550
	DefaultTundishMaxLevelMeters   = 1.181
	DefaultTundishThresholdMm      = 127
	DefaultTundishInitialFlowKgSec = 30
	DefaultTundishMaxFlowKgSec     = 150
)

func DefaultTundishDetails(density float64) model.ContainerDetails {
	return model.ContainerDetails{
		Id:                   "tundish",
		WidthMeters:          DefaultTundishWidthMeters,
		DepthMeters:          DefaultTundishDepthMeters,
		HeightMeters:         DefaultTundishMaxLevelMeters,
		MaxLevelMeters:       DefaultTundishMaxLevelMeters,
		ThresholdLevelMm:     DefaultTundishThresholdMm,
		InitialFlowRateKgSec: DefaultTundishInitialFlowKgSec,
		MaxFlowRateKgSec:     DefaultTundishMaxFlowKgSec,
		SteelDensity:         density,
	}
}

type Tundish struct {
	*SteelContainer
	rng *rand.Rand

	temperatureC float64
	tempInit     bool
	lastHeatIn   int
	cooling      *sim.Ticker
}

// 停止散热步进器
func (t *Tundish) Dispose() {
	if t.cooling != nil {
		t.cooling.Stop()
		t.cooling = nil
	}
}

func NewTundish(clock *sim.Clock, details model.ContainerDetails, rng *rand.Rand) *Tundish {
	t := &Tundish{
		SteelContainer: NewSteelContainer(clock, details),
		rng:            rng,
		lastHeatIn:     -1,
	}
	// 新炉次进入时初始化或抬升温度，同一炉次的连续注入不重复抬温
	t.On(EventNewSteelAdded, func(payload interface{}) {
		heatId, ok := payload.(int)
		if !ok || heatId == t.lastHeatIn {
			return
		}
		t.lastHeatIn = heatId
		if !t.tempInit {
			t.temperatureC = 1550 + float64(t.rng.Intn(10))
			t.tempInit = true
			return
		}
		t.temperatureC += t.rng.Float64()*5 + 3
	})
	// 每秒散热，浇注中散热慢于静置
	t.cooling = clock.Subscribe(details.Id+"_cooling", func(now time.Time) {
		if !t.tempInit {
			return
		}
		if t.flowRateKgSec > 0 {
			t.temperatureC -= t.rng.Float64()*0.05 + 0.02
		} else {
			t.temperatureC -= t.rng.Float64()*0.1 + 0.05
		}
	})
	return t
}

func (t *Tundish) TemperatureC() float64 {
	return t.temperatureC
}

// 过热度 = 温度 − 按片段重量加权的液相线
func (t *Tundish) SuperheatC() float64 {
	net := t.NetWeightKg()
	if net <= 0 {
		return 0
	}
	weighted := 0.0
	for _, f := range t.frags {
		weighted += f.LiquidusC * f.WeightKg
	}
	return t.temperatureC - weighted/net
}

func (t *Tundish) SuperheatTargetC() float64 {
	net := t.NetWeightKg()
	if net <= 0 {
		return 0
	}
	weighted := 0.0
	for _, f := range t.frags {
		weighted += f.TargetSuperheatC * f.WeightKg
	}
	return weighted / net
}

func (t *Tundish) StopperRodPositionPercent() float64 {
	if t.details.MaxFlowRateKgSec <= 0 {
		return 0
	}
	pos := t.flowRateKgSec / t.details.MaxFlowRateKgSec * 100
	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}
