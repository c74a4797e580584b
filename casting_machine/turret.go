package casting_machine

import (
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/container"
	"lzsim/event"
	"lzsim/model"
	"lzsim/sim"
)

// 回转台：双臂轮换大包，一臂始终处于浇铸位，另一臂处于装载位

const (
	MinLadleWeightKg       = 20000.0
	MinRotationDurationSec = 10
)

const EventRotated event.Kind = "rotated" // payload: 新浇铸位大包 *container.Ladle

type Turret struct {
	clock *sim.Clock
	bus   *event.Bus

	arms                [2]*container.Ladle
	castArm             int // 浇铸位臂下标
	isRotating          bool
	rotationDurationSec int
}

func NewTurret(clock *sim.Clock, rotationDurationSec int) (*Turret, error) {
	if rotationDurationSec < MinRotationDurationSec {
		return nil, model.ErrInvalidConfig
	}
	return &Turret{
		clock:               clock,
		bus:                 event.NewBus(),
		rotationDurationSec: rotationDurationSec,
	}, nil
}

func (t *Turret) On(kind event.Kind, fn event.Handler) *event.Token {
	return t.bus.Subscribe(kind, fn)
}

// 浇铸位臂号，1 或 2
func (t *Turret) CastArm() int {
	return t.castArm + 1
}

func (t *Turret) IsRotating() bool {
	return t.isRotating
}

func (t *Turret) CastLadle() *container.Ladle {
	return t.arms[t.castArm]
}

func (t *Turret) LoadLadle() *container.Ladle {
	return t.arms[1-t.castArm]
}

// 装载位装入大包，重量不足 20t 或回转中拒绝
func (t *Turret) AddLadle(l *container.Ladle) error {
	if l == nil || l.NetWeightKg() < MinLadleWeightKg {
		return model.ErrInvalidInput
	}
	if t.isRotating {
		return model.ErrInvalidStateTransition
	}
	loadArm := 1 - t.castArm
	if t.arms[loadArm] != nil {
		return model.ErrInvalidInput
	}
	t.arms[loadArm] = l
	log.WithFields(log.Fields{
		"arm":       loadArm + 1,
		"weight_kg": l.NetWeightKg(),
	}).Info("大包上台")
	return nil
}

// 移出大包并转移所有权，浇铸位或空臂拒绝
func (t *Turret) RemoveLadle(arm int) (*container.Ladle, error) {
	if arm < 1 || arm > 2 {
		return nil, model.ErrInvalidInput
	}
	idx := arm - 1
	if idx == t.castArm || t.arms[idx] == nil {
		return nil, model.ErrInvalidStateTransition
	}
	l := t.arms[idx]
	t.arms[idx] = nil
	return l, nil
}

// 回转：等待 rotationDuration 秒后交换浇铸位，完成后关闭返回的通道
// 回转中或浇铸位大包处于 Open 状态时为空操作
func (t *Turret) Rotate() <-chan struct{} {
	done := make(chan struct{})
	if t.isRotating {
		log.Warn("回转台正在回转，忽略")
		close(done)
		return done
	}
	if cast := t.arms[t.castArm]; cast != nil && cast.State() == container.LadleStateOpen {
		log.Warn("浇铸位大包未关闭，忽略回转")
		close(done)
		return done
	}
	t.isRotating = true
	remaining := t.rotationDurationSec
	var tk *sim.Ticker
	tk = t.clock.Subscribe("turret_rotate", func(now time.Time) {
		remaining--
		if remaining > 0 {
			return
		}
		tk.Stop()
		t.castArm = 1 - t.castArm
		t.isRotating = false
		log.WithFields(log.Fields{"cast_arm": t.castArm + 1}).Info("回转台回转完成")
		t.bus.Publish(EventRotated, t.arms[t.castArm])
		close(done)
	})
	return done
}
