package casting_machine

import (
	"math"
	"testing"

	"lzsim/model"
)

func testProduct(aim float64) *model.Product {
	return &model.Product{
		ProductId:       "2506010101-01",
		Type:            model.ProductTypeSlab,
		Planned:         true,
		LengthAimMeters: aim,
		LengthMinMeters: aim * 0.9,
		LengthMaxMeters: aim * 1.1,
	}
}

func TestTorch_CutAtAimLength(t *testing.T) {
	torch := NewTorch(10)
	var cuts []*model.Product
	torch.On(EventCutDone, func(payload interface{}) {
		cuts = append(cuts, payload.(*model.Product))
	})
	p := testProduct(5)
	torch.SetNextProduct(p, false)
	// 需要累计 15m 才能切出 5m
	for i := 0; i < 119; i++ {
		torch.Measure(0.125, 0)
	}
	if len(cuts) != 0 {
		t.Fatalf("不应提前切割: %d", len(cuts))
	}
	torch.Measure(0.125, 0)
	if len(cuts) != 1 {
		t.Fatalf("应已切割: %d", len(cuts))
	}
	if math.Abs(cuts[0].CutLengthMeters-5) > 1e-6 {
		t.Fatalf("切割长度错误: %f", cuts[0].CutLengthMeters)
	}
	// 复位后测量长度从零累计
	if torch.MeasuredCutLengthMeters() != 0 {
		t.Fatalf("切割后累计量应复位: %f", torch.MeasuredCutLengthMeters())
	}
}

func TestTorch_NoProductNoCut(t *testing.T) {
	torch := NewTorch(10)
	fired := false
	torch.On(EventCutDone, func(payload interface{}) {
		fired = true
	})
	for i := 0; i < 300; i++ {
		torch.Measure(0.1, 0)
	}
	if fired {
		t.Fatalf("无产品不应切割")
	}
}

func TestTorch_OptimizationGate(t *testing.T) {
	torch := NewTorch(10)
	fired := false
	torch.On(EventCutDone, func(payload interface{}) {
		fired = true
	})
	torch.SetNextProduct(testProduct(5), false)
	torch.SetOptimizationInProgress(true)
	for i := 0; i < 300; i++ {
		torch.Measure(0.1, 0)
	}
	if fired {
		t.Fatalf("优化进行中不应切割")
	}
	torch.SetOptimizationInProgress(false)
	torch.Measure(0.1, 0)
	if !fired {
		t.Fatalf("优化结束后应切割")
	}
}

func TestTorch_LastCutWaitsForTail(t *testing.T) {
	torch := NewTorch(10)
	fired := false
	torch.On(EventCutDone, func(payload interface{}) {
		fired = true
	})
	torch.SetNextProduct(testProduct(5), true)
	// 尾坯未越过割枪，最后一刀等待
	for i := 0; i < 200; i++ {
		torch.Measure(0.1, 8)
	}
	if fired {
		t.Fatalf("尾坯未过割枪不应切最后一刀")
	}
	torch.Measure(0.1, 10.5)
	if !fired {
		t.Fatalf("尾坯越过割枪后应切割")
	}
}
