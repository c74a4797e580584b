package container

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/event"
	"lzsim/model"
	"lzsim/sim"
)

// 钢水容器基类：持有炉次片段的 FIFO 队列，暴露液位/重量/流量，
// 生命周期事件通过内部总线同步发布

const (
	EventNewSteelAdded          event.Kind = "new_steel_added"          // payload: heatId int
	EventWeightThresholdReached event.Kind = "weight_threshold_reached" // payload: levelMm float64
	EventHeatOut                event.Kind = "heat_out"                 // payload: heatId int
	EventSteelPoured            event.Kind = "steel_poured"             // payload: model.HeatFragment
	EventContainerEmptied       event.Kind = "container_emptied"        // payload: lastHeatId int
)

type SteelContainer struct {
	details model.ContainerDetails
	clock   *sim.Clock
	bus     *event.Bus

	frags              []*model.HeatFragment
	flowRateKgSec      float64
	mixedSteelWeightKg float64
	thresholdReached   bool
	lastHeatOut        int
}

func NewSteelContainer(clock *sim.Clock, details model.ContainerDetails) *SteelContainer {
	return &SteelContainer{
		details:     details,
		clock:       clock,
		bus:         event.NewBus(),
		lastHeatOut: -1,
	}
}

func (s *SteelContainer) Id() string {
	return s.details.Id
}

func (s *SteelContainer) Details() model.ContainerDetails {
	return s.details
}

func (s *SteelContainer) On(kind event.Kind, fn event.Handler) *event.Token {
	return s.bus.Subscribe(kind, fn)
}

func (s *SteelContainer) NetWeightKg() float64 {
	total := 0.0
	for _, f := range s.frags {
		total += f.WeightKg
	}
	return total
}

// 液位 mm，由净重和几何推导
func (s *SteelContainer) LevelMm() float64 {
	return s.NetWeightKg() / s.details.Density() / (s.details.WidthMeters * s.details.DepthMeters) * 1000
}

func (s *SteelContainer) MixedSteelWeightKg() float64 {
	return s.mixedSteelWeightKg
}

func (s *SteelContainer) MixedSteelPercent() float64 {
	net := s.NetWeightKg()
	if net <= 0 {
		return 0
	}
	return s.mixedSteelWeightKg / net * 100
}

func (s *SteelContainer) FlowRateKgSec() float64 {
	return s.flowRateKgSec
}

func (s *SteelContainer) ThresholdReached() bool {
	return s.thresholdReached
}

func (s *SteelContainer) IsEmpty() bool {
	return len(s.frags) == 0
}

// 队列中片段的副本，FIFO 顺序
func (s *SteelContainer) Fragments() []model.HeatFragment {
	out := make([]model.HeatFragment, len(s.frags))
	for i, f := range s.frags {
		out[i] = *f
	}
	return out
}

// 加入钢水：同炉次合并重量，异炉次入队副本
// 非空容器迎来新片段时按 50% 规则记混浇钢量
func (s *SteelContainer) AddSteel(frag *model.HeatFragment) error {
	if frag == nil || frag.WeightKg <= 0 {
		return model.ErrInvalidInput
	}
	merged := false
	for _, f := range s.frags {
		if f.HeatId == frag.HeatId {
			f.WeightKg += frag.WeightKg
			merged = true
			break
		}
	}
	if !merged {
		if len(s.frags) > 0 {
			s.mixedSteelWeightKg = s.NetWeightKg() * 0.5
		}
		copied := *frag
		s.frags = append(s.frags, &copied)
	}
	if !s.thresholdReached && s.LevelMm() >= s.details.ThresholdLevelMm {
		s.thresholdReached = true
		level := s.LevelMm()
		log.WithFields(log.Fields{
			"container": s.details.Id,
			"level_mm":  level,
		}).Info("容器液位达到阈值")
		s.bus.Publish(EventWeightThresholdReached, level)
	}
	s.bus.Publish(EventNewSteelAdded, frag.HeatId)
	return nil
}

// 移出钢水：按 FIFO 顺序消耗片段，出浇的片段以副本形式发布
func (s *SteelContainer) RemoveSteel(weight float64) {
	if weight <= 0 || len(s.frags) == 0 {
		return
	}
	s.flowRateKgSec = weight
	initial := s.NetWeightKg()
	first := true
	for weight > 0 && len(s.frags) > 0 {
		head := s.frags[0]
		if first {
			if head.HeatId != s.lastHeatOut {
				s.lastHeatOut = head.HeatId
				s.bus.Publish(EventHeatOut, head.HeatId)
			}
			first = false
		}
		if head.WeightKg <= weight {
			poured := *head
			weight -= head.WeightKg
			s.frags = s.frags[1:]
			s.lastHeatOut = head.HeatId
			s.bus.Publish(EventSteelPoured, poured)
		} else {
			head.WeightKg -= weight
			poured := *head
			poured.WeightKg = weight
			weight = 0
			s.bus.Publish(EventSteelPoured, poured)
		}
	}
	s.mixedSteelWeightKg -= initial - s.NetWeightKg()
	if s.mixedSteelWeightKg < 0 {
		s.mixedSteelWeightKg = 0
	}
	if net := s.NetWeightKg(); s.mixedSteelWeightKg > net {
		s.mixedSteelWeightKg = net
	}
	if len(s.frags) == 0 {
		s.flowRateKgSec = 0
		log.WithFields(log.Fields{
			"container":    s.details.Id,
			"last_heat_id": s.lastHeatOut,
		}).Info("容器已排空")
		s.bus.Publish(EventContainerEmptied, s.lastHeatOut)
	}
}

// 空容器上设置流量为空操作
func (s *SteelContainer) SetFlowRate(r float64) {
	if len(s.frags) == 0 {
		return
	}
	s.flowRateKgSec = r
}

// 以当前流量逐拍排空，排空后步进器自停并关闭返回的通道
func (s *SteelContainer) PourAsync() <-chan struct{} {
	done := make(chan struct{})
	s.flowRateKgSec = s.details.InitialFlowRateKgSec
	finished := false
	var tk *sim.Ticker
	tk = s.clock.Subscribe(s.details.Id+"_pour", func(now time.Time) {
		if finished {
			return
		}
		s.RemoveSteel(s.flowRateKgSec)
		if len(s.frags) == 0 {
			finished = true
			tk.Stop()
			close(done)
		}
	})
	return done
}
