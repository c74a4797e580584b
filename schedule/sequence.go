package schedule

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/model"
	"lzsim/queue"
)

// 浇次：一次连浇的全部炉次和产品计划
// 产品队列可观察，优化器通过 Replace 原子改写

const heatIdEpoch = "2025-01-01T00:00:00Z"

var aimChoices = []float64{4, 4.5, 5, 5.5, 6}

type Sequence struct {
	Id              string
	WidthMeters     float64
	ThicknessMeters float64
	SteelDensity    float64

	Heats       map[int]*model.Heat
	heatOrder   []int
	Products    *queue.Products
	CutProducts *queue.Products
}

func NewSequence(id string, width, thickness, density float64) *Sequence {
	return &Sequence{
		Id:              id,
		WidthMeters:     width,
		ThicknessMeters: thickness,
		SteelDensity:    density,
		Heats:           make(map[int]*model.Heat),
		Products:        queue.NewProducts(),
		CutProducts:     queue.NewProducts(),
	}
}

func (s *Sequence) AddHeat(h *model.Heat) {
	s.Heats[h.Id] = h
	s.heatOrder = append(s.heatOrder, h.Id)
}

// 炉次号升序
func (s *Sequence) HeatOrder() []int {
	out := make([]int, len(s.heatOrder))
	copy(out, s.heatOrder)
	sort.Ints(out)
	return out
}

// 按目录和断面构建缺省浇次：3 炉，每炉 20t，随机钢种与目标定尺
func BuildSequence(catalog *Catalog, width, thickness, density, torchLocationMeters float64,
	now time.Time, rng *rand.Rand) (*Sequence, error) {
	if catalog == nil || catalog.Size() == 0 {
		return nil, model.ErrInvalidConfig
	}
	if width <= 0 || thickness <= 0 || density <= 0 {
		return nil, model.ErrInvalidConfig
	}
	seq := NewSequence(now.Format("0601021504"), width, thickness, density)

	epoch, _ := time.Parse(time.RFC3339, heatIdEpoch)
	baseId := int(now.Sub(epoch) / time.Minute)

	cutNumber := 0
	for i := 0; i < 3; i++ {
		grade := catalog.Random(rng)
		heatId := baseId + i
		heat := &model.Heat{
			Id:           heatId,
			Name:         fmt.Sprintf("H%d", heatId),
			NetWeightKg:  20000,
			SteelGradeId: grade.SteelGradeId,
			Status:       model.HeatStatusNew,
		}
		seq.AddHeat(heat)

		aim := aimChoices[rng.Intn(len(aimChoices))]
		max := aim * 1.1
		if max >= torchLocationMeters-4 {
			return nil, model.ErrInvalidConfig
		}
		count := int(math.Ceil(heat.NetWeightKg / (width * thickness * aim * density)))
		for j := 0; j < count; j++ {
			cutNumber++
			seq.Products.Enqueue(&model.Product{
				SequenceId:      seq.Id,
				CutNumber:       cutNumber,
				ProductId:       fmt.Sprintf("%s-%02d", seq.Id, cutNumber),
				Type:            model.ProductTypeSlab,
				Planned:         true,
				LengthAimMeters: aim,
				LengthMinMeters: aim * 0.9,
				LengthMaxMeters: max,
				WidthMeters:     width,
				ThicknessMeters: thickness,
			})
		}
	}
	log.WithFields(log.Fields{
		"sequence": seq.Id,
		"heats":    len(seq.Heats),
		"products": seq.Products.Size(),
	}).Info("浇次构建完成")
	return seq, nil
}
