package caster

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"lzsim/casting_machine"
	"lzsim/config"
	"lzsim/container"
	"lzsim/control"
	"lzsim/event"
	"lzsim/model"
	"lzsim/sim"
)

// 编排器：持有整条机组并完成事件接线与两条液位控制回路

const (
	TundishTargetLevelMm    = 453.0
	TundishTolerancePercent = 10.0
	MoldTargetLevelMm       = 825.0
	MoldTolerancePercent    = 5.0
)

const EventCastingFinished event.Kind = "casting_finished"

type Caster struct {
	clock *sim.Clock
	cfg   *config.EngineConfig
	bus   *event.Bus

	turret  *casting_machine.Turret
	tundish *container.Tundish
	mold    *container.Mold
	strand  *casting_machine.Strand
	torch   *casting_machine.Torch
	cooling *casting_machine.CoolingSectionController

	castLadle *container.Ladle
	ladleTok  *event.Token

	ladleLoop   *control.Loop
	tundishLoop *control.Loop

	tokens   []*event.Token
	finished chan struct{}
	done     bool
	disposed bool
}

func NewCaster(clock *sim.Clock, cfg *config.EngineConfig,
	cooling *casting_machine.CoolingSectionController, rng *rand.Rand) (*Caster, error) {
	turret, err := casting_machine.NewTurret(clock, cfg.RotationDurationSec)
	if err != nil {
		return nil, err
	}
	speed, err := casting_machine.NewSpeedController(0, cfg.TargetCastSpeedMetersMin, cfg.SpeedRampDurationSec)
	if err != nil {
		return nil, err
	}
	c := &Caster{
		clock:    clock,
		cfg:      cfg,
		bus:      event.NewBus(),
		turret:   turret,
		tundish:  container.NewTundish(clock, cfg.Tundish, rng),
		mold:     container.NewMold(clock, cfg.Mold),
		strand:   casting_machine.NewStrand(clock, speed),
		torch:    casting_machine.NewTorch(cfg.TorchLocationMeters),
		cooling:  cooling,
		finished: make(chan struct{}),
	}
	c.ladleLoop = control.NewLoop("ladle_tundish_loop",
		cfg.Ladle.MaxFlowRateKgSec, TundishTargetLevelMm, TundishTolerancePercent,
		c.tundish.LevelMm,
		func() float64 {
			if c.castLadle == nil {
				return 0
			}
			return c.castLadle.FlowRateKgSec()
		},
		func(v float64) {
			if c.castLadle != nil {
				c.castLadle.SetFlowRate(v)
			}
		},
		func() bool { return c.castLadle != nil && !c.castLadle.IsEmpty() && !c.tundish.IsEmpty() })
	c.tundishLoop = control.NewLoop("tundish_mold_loop",
		cfg.Tundish.MaxFlowRateKgSec, MoldTargetLevelMm, MoldTolerancePercent,
		c.mold.LevelMm,
		c.tundish.FlowRateKgSec,
		c.tundish.SetFlowRate,
		func() bool { return !c.tundish.IsEmpty() })
	c.wire()
	return c, nil
}

func (c *Caster) wire() {
	// 回转到位后接上新大包的出钢事件
	c.keep(c.turret.On(casting_machine.EventRotated, func(payload interface{}) {
		l, _ := payload.(*container.Ladle)
		if l == nil || l.State() != container.LadleStateNew {
			return
		}
		if c.ladleTok != nil {
			c.ladleTok.Cancel()
		}
		c.castLadle = l
		c.ladleTok = l.On(container.EventSteelPoured, func(payload interface{}) {
			frag := payload.(model.HeatFragment)
			if err := c.tundish.AddSteel(&frag); err != nil {
				log.WithFields(log.Fields{"err": err}).Error("中间包注钢失败")
			}
		})
	}))

	// 中间包过阈值：开启大包流量回路并开始向结晶器浇注
	c.keep(c.tundish.On(container.EventWeightThresholdReached, func(payload interface{}) {
		c.ladleLoop.Start(c.clock)
		c.tundish.PourAsync()
	}))

	c.keep(c.tundish.On(container.EventSteelPoured, func(payload interface{}) {
		frag := payload.(model.HeatFragment)
		if err := c.mold.AddSteel(&frag); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("结晶器注钢失败")
		}
	}))

	// 结晶器过阈值：开浇并开启中间包流量回路
	c.keep(c.mold.On(container.EventWeightThresholdReached, func(payload interface{}) {
		c.strand.Start()
		c.tundishLoop.Start(c.clock)
	}))

	c.keep(c.mold.On(container.EventContainerEmptied, func(payload interface{}) {
		c.strand.SetMode(casting_machine.StrandModeTailout)
	}))

	c.keep(c.strand.On(casting_machine.EventAdvanced, func(payload interface{}) {
		adv := payload.(casting_machine.Advance)
		if adv.Mode != casting_machine.StrandModeTailout {
			mass := c.cfg.MoldCrossSectionM2() * adv.IncrementMeters * c.cfg.SteelDensity
			c.mold.RemoveSteel(mass)
		}
		c.torch.Measure(adv.IncrementMeters, adv.TailFromMoldMeters)
		if adv.TailFromMoldMeters > c.cfg.TorchLocationMeters {
			c.strand.Stop()
			c.finish()
		}
		c.cooling.Activate(adv.HeadFromMoldMeters, adv.TailFromMoldMeters, adv.CastSpeedMetersMin, c.clock.Now())
	}))

	// 切割后头部测量基准回到割枪位置
	c.keep(c.torch.On(casting_machine.EventCutDone, func(payload interface{}) {
		c.strand.SetHeadFromMoldMeters(c.cfg.TorchLocationMeters)
	}))
}

func (c *Caster) keep(t *event.Token) {
	c.tokens = append(c.tokens, t)
}

func (c *Caster) finish() {
	if c.done {
		return
	}
	c.done = true
	log.Info("浇次结束")
	c.bus.Publish(EventCastingFinished, nil)
	close(c.finished)
}

func (c *Caster) On(kind event.Kind, fn event.Handler) *event.Token {
	return c.bus.Subscribe(kind, fn)
}

// 浇次结束信号
func (c *Caster) Finished() <-chan struct{} {
	return c.finished
}

func (c *Caster) Clock() *sim.Clock                                { return c.clock }
func (c *Caster) Config() *config.EngineConfig                     { return c.cfg }
func (c *Caster) Turret() *casting_machine.Turret                  { return c.turret }
func (c *Caster) Tundish() *container.Tundish                      { return c.tundish }
func (c *Caster) Mold() *container.Mold                            { return c.mold }
func (c *Caster) Strand() *casting_machine.Strand                  { return c.strand }
func (c *Caster) Torch() *casting_machine.Torch                    { return c.torch }
func (c *Caster) Cooling() *casting_machine.CoolingSectionController { return c.cooling }
func (c *Caster) CastLadle() *container.Ladle                      { return c.castLadle }

// 注销顺序与注册相反
func (c *Caster) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.ladleLoop.Stop()
	c.tundishLoop.Stop()
	c.strand.Stop()
	c.tundish.Dispose()
	if c.ladleTok != nil {
		c.ladleTok.Cancel()
	}
	for i := len(c.tokens) - 1; i >= 0; i-- {
		c.tokens[i].Cancel()
	}
	log.Info("编排器已注销")
}
