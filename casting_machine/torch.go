package casting_machine

import (
	log "github.com/sirupsen/logrus"

	"lzsim/event"
	"lzsim/model"
)

// 割枪：位于离结晶器固定距离处，积累通过的坯长，
// 达到当前产品的目标长度时发出切割事件

const EventCutDone event.Kind = "cut_done" // payload: *model.Product

type Torch struct {
	bus            *event.Bus
	locationMeters float64

	acc        float64
	next       *model.Product
	isLast     bool
	optimizing bool
}

func NewTorch(locationMeters float64) *Torch {
	return &Torch{
		bus:            event.NewBus(),
		locationMeters: locationMeters,
	}
}

func (t *Torch) On(kind event.Kind, fn event.Handler) *event.Token {
	return t.bus.Subscribe(kind, fn)
}

func (t *Torch) LocationMeters() float64 {
	return t.locationMeters
}

func (t *Torch) NextProduct() *model.Product {
	return t.next
}

func (t *Torch) SetNextProduct(p *model.Product, isLast bool) {
	t.next = p
	t.isLast = isLast
}

func (t *Torch) ResetNextProduct() {
	t.next = nil
	t.isLast = false
}

// 优化器运行期间禁止测量，由序列驱动（tracking）在优化前后成对切换
func (t *Torch) SetOptimizationInProgress(v bool) {
	t.optimizing = v
}

// 当前已测得的切割长度
func (t *Torch) MeasuredCutLengthMeters() float64 {
	v := t.acc - t.locationMeters
	if v < 0 {
		return 0
	}
	return v
}

// 每次铸坯推进调用一次
// 最后一个产品要等尾坯越过割枪后才允许切割
func (t *Torch) Measure(incrementMeters, tailPositionMeters float64) {
	t.acc += incrementMeters
	if t.optimizing {
		return
	}
	if t.isLast && tailPositionMeters <= t.locationMeters {
		return
	}
	measCutLength := t.acc - t.locationMeters
	if measCutLength < 0 {
		measCutLength = 0
	}
	if t.next == nil || measCutLength < t.next.LengthAimMeters {
		return
	}
	product := t.next
	product.CutLengthMeters = measCutLength
	t.acc = t.locationMeters
	log.WithFields(log.Fields{
		"product_id":   product.ProductId,
		"cut_length_m": measCutLength,
		"length_aim_m": product.LengthAimMeters,
	}).Info("切割完成")
	t.bus.Publish(EventCutDone, product)
}
