package schedule

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"lzsim/model"
)

// 切割计划优化：铸坯余钢不足时改写剩余产品队列，
// 使切出的总长贴合余钢量并守住 4m 最短定尺
// 纯函数，写时复制，出错时原样返回输入

const MinCutLengthMeters = 4.0

func Optimize(steelInStrand float64, products []*model.Product, sequenceId string) (result []*model.Product) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"err": r}).Error("优化失败，保留原队列")
			result = products
		}
	}()
	if steelInStrand <= 0 || len(products) == 0 {
		return products
	}

	// 1. 按序复制到目标累计定尺首次超出余钢为止
	var working []*model.Product
	acc := 0.0
	maxCutNumber := 0
	for _, p := range products {
		if p.CutNumber > maxCutNumber {
			maxCutNumber = p.CutNumber
		}
		if acc > steelInStrand {
			continue
		}
		working = append(working, p.Clone())
		acc += p.LengthAimMeters
	}

	// 2. 余钢仍超出时克隆末尾产品补足
	nextNumber := len(products) + 1
	budget := steelInStrand
	for budget > acc {
		last := working[len(working)-1]
		extra := last.Clone()
		extra.Planned = false
		maxCutNumber++
		extra.CutNumber = maxCutNumber
		extra.ProductId = fmt.Sprintf("%s-%02d", sequenceId, nextNumber)
		nextNumber++
		working = append(working, extra)
		budget -= last.LengthAimMeters
	}

	// 3. 主循环
	var out []*model.Product
	r := steelInStrand
	i := 0
	for r > 0 {
		if r < MinCutLengthMeters {
			if len(out) > 0 {
				prior := out[len(out)-1]
				prior.LengthAimMeters -= MinCutLengthMeters - r
				maxCutNumber++
				out = append(out, tailProduct(prior, sequenceId, MinCutLengthMeters, maxCutNumber))
			}
			break
		}
		if i >= len(working) {
			break
		}
		p := working[i]
		i++
		var last *model.Product
		if len(out) > 0 {
			last = out[len(out)-1]
		}
		switch {
		case r >= p.LengthAimMeters:
			out = append(out, p)
			r -= p.LengthAimMeters
		case r >= p.LengthMinMeters:
			p.LengthAimMeters = r
			out = append(out, p)
			r = 0
		case last != nil && last.LengthMaxMeters > last.LengthAimMeters:
			added := last.LengthMaxMeters - last.LengthAimMeters
			last.LengthAimMeters = last.LengthMaxMeters
			r -= added
		default:
			maxCutNumber++
			out = append(out, tailProduct(p, sequenceId, r, maxCutNumber))
			r = 0
		}
	}
	// 4. 空结果原样返回
	if len(out) == 0 {
		return products
	}
	log.WithFields(log.Fields{
		"steel_in_strand_m": steelInStrand,
		"in":                len(products),
		"out":               len(out),
	}).Info("切割计划优化完成")
	return out
}

func tailProduct(template *model.Product, sequenceId string, aim float64, cutNumber int) *model.Product {
	t := template.Clone()
	t.Planned = false
	t.CutNumber = cutNumber
	t.ProductId = fmt.Sprintf("%s-TAIL", sequenceId)
	t.LengthAimMeters = aim
	t.LengthMinMeters = aim
	t.LengthMaxMeters = aim
	t.CutLengthMeters = 0
	return t
}
