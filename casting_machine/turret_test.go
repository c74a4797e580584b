package casting_machine

import (
	"math/rand"
	"testing"
	"time"

	"lzsim/container"
	"lzsim/model"
	"lzsim/sim"
)

func newTestLadle(clock *sim.Clock, weight float64) *container.Ladle {
	details := model.ContainerDetails{
		Id:                   "ladle",
		WidthMeters:          2.5,
		DepthMeters:          2.5,
		HeightMeters:         4,
		MaxLevelMeters:       3.8,
		InitialFlowRateKgSec: 100,
		MaxFlowRateKgSec:     200,
		SteelDensity:         7850,
	}
	l := container.NewLadle(clock, details, rand.New(rand.NewSource(1)))
	if weight > 0 {
		l.AddSteel(&model.HeatFragment{HeatId: 1, WeightKg: weight, SteelGradeId: "304"})
	}
	return l
}

func TestTurret_RotationDurationTooShort(t *testing.T) {
	if _, err := NewTurret(sim.NewClock(time.Now()), 9); err != model.ErrInvalidConfig {
		t.Fatalf("回转时长小于 10s 应拒绝: %v", err)
	}
}

func TestTurret_AddLadleTooLight(t *testing.T) {
	clock := sim.NewClock(time.Now())
	turret, _ := NewTurret(clock, 10)
	if err := turret.AddLadle(newTestLadle(clock, 19999)); err != model.ErrInvalidInput {
		t.Fatalf("不足 20t 的大包应拒绝: %v", err)
	}
	if err := turret.AddLadle(nil); err != model.ErrInvalidInput {
		t.Fatalf("空大包应拒绝: %v", err)
	}
}

func TestTurret_RotateSwapsCastArm(t *testing.T) {
	clock := sim.NewClock(time.Now())
	turret, _ := NewTurret(clock, 10)
	l := newTestLadle(clock, 20000)
	if err := turret.AddLadle(l); err != nil {
		t.Fatalf("上台失败: %v", err)
	}
	rotated := false
	turret.On(EventRotated, func(payload interface{}) {
		rotated = true
		if payload.(*container.Ladle) != l {
			t.Fatalf("回转事件的浇铸位大包错误")
		}
	})
	done := turret.Rotate()
	if !turret.IsRotating() {
		t.Fatalf("应处于回转中")
	}
	// 回转中拒绝上台
	if err := turret.AddLadle(newTestLadle(clock, 20000)); err != model.ErrInvalidStateTransition {
		t.Fatalf("回转中上台应拒绝: %v", err)
	}
	clock.Step(9)
	select {
	case <-done:
		t.Fatalf("回转不应提前完成")
	default:
	}
	clock.Step(1)
	select {
	case <-done:
	default:
		t.Fatalf("回转应已完成")
	}
	if !rotated || turret.IsRotating() {
		t.Fatalf("回转完成状态错误")
	}
	if turret.CastLadle() != l {
		t.Fatalf("大包应处于浇铸位")
	}
}

func TestTurret_RotateNoopWhenCastLadleOpen(t *testing.T) {
	clock := sim.NewClock(time.Now())
	turret, _ := NewTurret(clock, 10)
	l := newTestLadle(clock, 25000)
	turret.AddLadle(l)
	<-rotateAndStep(clock, turret)
	l.PourAsync()
	// 浇铸位大包 Open，回转为空操作
	done := turret.Rotate()
	select {
	case <-done:
	default:
		t.Fatalf("空操作应立即完成")
	}
	if turret.IsRotating() {
		t.Fatalf("空操作不应进入回转")
	}
	if turret.CastLadle() != l {
		t.Fatalf("空操作不应换臂")
	}
}

func TestTurret_RemoveLadle(t *testing.T) {
	clock := sim.NewClock(time.Now())
	turret, _ := NewTurret(clock, 10)
	l := newTestLadle(clock, 20000)
	turret.AddLadle(l)
	loadArm := 3 - turret.CastArm()
	// 空臂与浇铸位均拒绝
	if _, err := turret.RemoveLadle(turret.CastArm()); err != model.ErrInvalidStateTransition {
		t.Fatalf("浇铸位移包应拒绝: %v", err)
	}
	got, err := turret.RemoveLadle(loadArm)
	if err != nil || got != l {
		t.Fatalf("装载位移包失败: %v", err)
	}
	if _, err := turret.RemoveLadle(loadArm); err != model.ErrInvalidStateTransition {
		t.Fatalf("空臂移包应拒绝: %v", err)
	}
}

func rotateAndStep(clock *sim.Clock, turret *Turret) <-chan struct{} {
	done := turret.Rotate()
	clock.Step(10)
	return done
}
