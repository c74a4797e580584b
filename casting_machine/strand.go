package casting_machine

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/event"
	"lzsim/sim"
)

// 铸坯：跟踪头尾位置和累计浇铸长度，拉速爬升由 SpeedController 驱动

type StrandMode int

const (
	StrandModeIdle StrandMode = iota
	StrandModeDummyBarInsert
	StrandModeReadyToCast
	StrandModeCasting
	StrandModeTailout
)

func (m StrandMode) String() string {
	switch m {
	case StrandModeIdle:
		return "Idle"
	case StrandModeDummyBarInsert:
		return "DummyBarInsert"
	case StrandModeReadyToCast:
		return "ReadyToCast"
	case StrandModeCasting:
		return "Casting"
	case StrandModeTailout:
		return "Tailout"
	}
	return "Unknown"
}

const EventAdvanced event.Kind = "advanced" // payload: Advance

// 一次节拍的推进量
type Advance struct {
	IncrementMeters       float64
	HeadFromMoldMeters    float64
	TailFromMoldMeters    float64
	TotalCastLengthMeters float64
	CastSpeedMetersMin    float64
	Mode                  StrandMode
}

type Strand struct {
	clock *sim.Clock
	bus   *event.Bus
	speed *SpeedController

	mode                  StrandMode
	castSpeedMetersMin    float64
	headFromMoldMeters    float64
	tailFromMoldMeters    float64
	totalCastLengthMeters float64
	ticker                *sim.Ticker
}

func NewStrand(clock *sim.Clock, speed *SpeedController) *Strand {
	return &Strand{
		clock: clock,
		bus:   event.NewBus(),
		speed: speed,
		mode:  StrandModeIdle,
	}
}

func (s *Strand) On(kind event.Kind, fn event.Handler) *event.Token {
	return s.bus.Subscribe(kind, fn)
}

func (s *Strand) Mode() StrandMode {
	return s.mode
}

func (s *Strand) SetMode(m StrandMode) {
	s.mode = m
	log.WithFields(log.Fields{"mode": m.String()}).Info("铸坯模式切换")
}

func (s *Strand) CastSpeedMetersMin() float64 {
	return s.castSpeedMetersMin
}

func (s *Strand) HeadFromMoldMeters() float64 {
	return s.headFromMoldMeters
}

// 切割完成后由编排器复位到割枪位置
func (s *Strand) SetHeadFromMoldMeters(v float64) {
	s.headFromMoldMeters = v
}

func (s *Strand) TailFromMoldMeters() float64 {
	return s.tailFromMoldMeters
}

func (s *Strand) TotalCastLengthMeters() float64 {
	return s.totalCastLengthMeters
}

// 开浇：进入 Casting 并启动节拍
func (s *Strand) Start() {
	if s.ticker != nil {
		return
	}
	s.mode = StrandModeCasting
	s.ticker = s.clock.Subscribe("strand", s.tick)
	log.Info("铸坯启动")
}

// 停机：停节拍，回到 Idle，拉速归零
func (s *Strand) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.mode = StrandModeIdle
	s.castSpeedMetersMin = 0
	log.Info("铸坯停止")
}

func (s *Strand) tick(now time.Time) {
	s.castSpeedMetersMin = s.speed.Next()
	increment := s.castSpeedMetersMin / 60
	s.headFromMoldMeters += increment
	switch s.mode {
	case StrandModeCasting:
		s.totalCastLengthMeters += increment
	case StrandModeTailout:
		s.tailFromMoldMeters += increment
	}
	s.bus.Publish(EventAdvanced, Advance{
		IncrementMeters:       increment,
		HeadFromMoldMeters:    s.headFromMoldMeters,
		TailFromMoldMeters:    s.tailFromMoldMeters,
		TotalCastLengthMeters: s.totalCastLengthMeters,
		CastSpeedMetersMin:    s.castSpeedMetersMin,
		Mode:                  s.mode,
	})
}
