package tracking

import (
	"context"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"lzsim/caster"
	"lzsim/casting_machine"
	"lzsim/container"
	"lzsim/event"
	"lzsim/model"
	"lzsim/schedule"
	"lzsim/sim"
)

// 序列驱动：按炉次号升序把炉次送过机组，归属浇铸长度并推进炉次状态

type Tracker struct {
	clock   *sim.Clock
	cst     *caster.Caster
	seq     *schedule.Sequence
	catalog *schedule.Catalog
	rng     *rand.Rand

	optimized   bool
	cuttingTick map[int]int64
	tokens      []*event.Token
}

func NewTracker(clock *sim.Clock, cst *caster.Caster, seq *schedule.Sequence,
	catalog *schedule.Catalog, rng *rand.Rand) *Tracker {
	t := &Tracker{
		clock:       clock,
		cst:         cst,
		seq:         seq,
		catalog:     catalog,
		rng:         rng,
		cuttingTick: make(map[int]int64),
	}
	t.wire()
	return t
}

func (t *Tracker) wire() {
	// 炉次进入铸流
	t.keep(t.cst.Tundish().On(container.EventHeatOut, func(payload interface{}) {
		heatId := payload.(int)
		h := t.seq.Heats[heatId]
		if h == nil || h.CastingTimeUtc != nil {
			return
		}
		now := t.clock.Now()
		h.CastingTimeUtc = &now
		h.CastLengthAtStartMeters = t.cst.Strand().TotalCastLengthMeters()
		if h.Status < model.HeatStatusCasting {
			h.Status = model.HeatStatusCasting
		}
		log.WithFields(log.Fields{"heat": heatId}).Info("炉次进入铸流")
	}))

	// 每次推进归属坯长并推进切割状态
	t.keep(t.cst.Strand().On(casting_machine.EventAdvanced, func(payload interface{}) {
		adv := payload.(casting_machine.Advance)
		tick := t.clock.TickCount()
		for _, id := range t.seq.HeatOrder() {
			h := t.seq.Heats[id]
			if h.CastingTimeUtc == nil || h.Status >= model.HeatStatusCast {
				continue
			}
			h.HeatBoundaryMeters += adv.IncrementMeters
			if h.Status == model.HeatStatusCutting {
				if since, ok := t.cuttingTick[id]; ok && tick > since {
					h.Status = model.HeatStatusCast
					log.WithFields(log.Fields{"heat": id}).Info("炉次浇铸完成")
				}
				continue
			}
			if h.Status == model.HeatStatusCasting &&
				adv.TotalCastLengthMeters-h.CastLengthAtStartMeters > t.cst.Torch().LocationMeters() {
				h.Status = model.HeatStatusCutting
				t.cuttingTick[id] = tick
			}
		}
	}))

	// 切割完成：产品落袋，必要时触发一次余钢优化，再装填下一刀
	t.keep(t.cst.Torch().On(casting_machine.EventCutDone, func(payload interface{}) {
		p := payload.(*model.Product)
		p.WeightKg = p.CutLengthMeters * t.seq.WidthMeters * t.seq.ThicknessMeters * t.seq.SteelDensity
		t.seq.CutProducts.Enqueue(p)
		if t.cst.Strand().Mode() == casting_machine.StrandModeTailout && !t.optimized {
			t.optimized = true
			t.cst.Torch().SetOptimizationInProgress(true)
			steelInStrand := t.cst.Strand().HeadFromMoldMeters() - t.cst.Strand().TailFromMoldMeters()
			remaining := t.seq.Products.Snapshot()
			t.seq.Products.Replace(schedule.Optimize(steelInStrand, remaining, t.seq.Id))
			t.cst.Torch().SetOptimizationInProgress(false)
		}
		t.armNextProduct()
	}))

	// 中间包过阈值时装填第一刀
	t.keep(t.cst.Tundish().On(container.EventWeightThresholdReached, func(payload interface{}) {
		t.armNextProduct()
	}))
}

func (t *Tracker) keep(tok *event.Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *Tracker) armNextProduct() {
	p := t.seq.Products.Dequeue()
	if p == nil {
		t.cst.Torch().ResetNextProduct()
		return
	}
	p.CastLengthStartMeters = t.cst.Strand().TotalCastLengthMeters()
	// 只有拉尾坯阶段的收尾刀才挂最后一刀标记，普通切割不受尾坯门限约束
	isLast := t.seq.Products.Size() == 0 &&
		t.cst.Strand().Mode() == casting_machine.StrandModeTailout
	t.cst.Torch().SetNextProduct(p, isLast)
}

// 依次浇完全部炉次并等待浇次结束
func (t *Tracker) StartSequence(ctx context.Context) error {
	order := t.seq.HeatOrder()
	if len(order) == 0 {
		return model.ErrInvalidConfig
	}
	for _, id := range order {
		if err := t.runHeat(ctx, id); err != nil {
			return err
		}
	}
	select {
	case <-t.cst.Finished():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (t *Tracker) runHeat(ctx context.Context, heatId int) error {
	var (
		heat     *model.Heat
		ladle    *container.Ladle
		err      error
		rotDone  <-chan struct{}
		pourDone <-chan struct{}
	)
	t.clock.Do(func() {
		heat = t.seq.Heats[heatId]
		if heat == nil {
			err = model.ErrInvalidInput
			return
		}
		heat.Status = model.HeatStatusNext
		grade, ok := t.catalog.Get(heat.SteelGradeId)
		if !ok {
			err = model.ErrInvalidConfig
			return
		}
		ladle = container.NewLadle(t.clock, t.cst.Config().Ladle, t.rng)
		if err = ladle.AddSteel(&model.HeatFragment{
			HeatId:           heat.Id,
			WeightKg:         heat.NetWeightKg,
			SteelGradeId:     grade.SteelGradeId,
			LiquidusC:        grade.LiquidusTemperatureC,
			TargetSuperheatC: grade.TargetSuperheatC,
		}); err != nil {
			return
		}
		h := heat
		ladle.On(container.EventHeatOut, func(payload interface{}) {
			if h.OpenTimeUtc == nil {
				now := t.clock.Now()
				h.OpenTimeUtc = &now
			}
			if h.Status < model.HeatStatusPouring {
				h.Status = model.HeatStatusPouring
				log.WithFields(log.Fields{"heat": h.Id}).Info("炉次开浇")
			}
		})
		ladle.On(container.EventContainerEmptied, func(payload interface{}) {
			if h.CloseTimeUtc == nil {
				now := t.clock.Now()
				h.CloseTimeUtc = &now
				log.WithFields(log.Fields{"heat": h.Id}).Info("炉次浇毕")
			}
			if h.Status < model.HeatStatusClosed {
				h.Status = model.HeatStatusClosed
			}
		})
		// 装载臂被上一炉的空包占用时先移出
		turret := t.cst.Turret()
		loadArm := 3 - turret.CastArm()
		if turret.LoadLadle() != nil {
			if _, err = turret.RemoveLadle(loadArm); err != nil {
				return
			}
		}
		err = turret.AddLadle(ladle)
	})
	if err != nil {
		return err
	}
	t.clock.Do(func() {
		rotDone = t.cst.Turret().Rotate()
	})
	select {
	case <-rotDone:
	case <-ctx.Done():
		return ctx.Err()
	}
	t.clock.Do(func() {
		if t.cst.Turret().CastLadle() != ladle {
			err = model.ErrInvalidStateTransition
			return
		}
		pourDone = ladle.PourAsync()
	})
	if err != nil {
		return err
	}
	select {
	case <-pourDone:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// 注销全部跨组件订阅
func (t *Tracker) Dispose() {
	for i := len(t.tokens) - 1; i >= 0; i-- {
		t.tokens[i].Cancel()
	}
	t.cst.Dispose()
}
