package telemetry

import (
	"fmt"

	"lzsim/caster"
	"lzsim/model"
)

// 总览画面需要的全部指标，area 固定为 overview

const AreaOverview = "overview"

func RegisterOverview(p *Publisher, c *caster.Caster) {
	reg := func(name string, fn Provider) {
		p.Register(name, fn, AreaOverview)
	}

	// 大包
	reg("ladle_weight_kg", func() interface{} {
		l := c.CastLadle()
		if l == nil {
			return nil
		}
		return l.NetWeightKg()
	})
	reg("ladle_flow_kg_sec", func() interface{} {
		l := c.CastLadle()
		if l == nil {
			return nil
		}
		return l.FlowRateKgSec()
	})

	// 中间包
	td := c.Tundish()
	reg("tundish_weight_kg", func() interface{} { return td.NetWeightKg() })
	reg("tundish_level_mm", func() interface{} { return td.LevelMm() })
	reg("tundish_temperature_c", func() interface{} { return td.TemperatureC() })
	reg("tundish_superheat_c", func() interface{} { return td.SuperheatC() })
	reg("tundish_superheat_target_c", func() interface{} { return td.SuperheatTargetC() })
	reg("tundish_flow_kg_sec", func() interface{} { return td.FlowRateKgSec() })
	reg("tundish_mixed_steel_percent", func() interface{} { return td.MixedSteelPercent() })
	reg("tundish_mixed_steel", func() interface{} { return td.MixedSteelPercent() > 0 })
	reg("tundish_rod_position_percent", func() interface{} { return td.StopperRodPositionPercent() })

	// 结晶器
	reg("mold_level_mm", func() interface{} { return c.Mold().LevelMm() })
	reg("mold_flow_kg_sec", func() interface{} { return c.Mold().FlowRateKgSec() })

	// 铸流与割枪
	reg("total_cast_length_m", func() interface{} { return c.Strand().TotalCastLengthMeters() })
	reg("cast_speed_m_min", func() interface{} { return c.Strand().CastSpeedMetersMin() })
	reg("head_position_m", func() interface{} { return c.Strand().HeadFromMoldMeters() })
	reg("tail_position_m", func() interface{} { return c.Strand().TailFromMoldMeters() })
	reg("measured_cut_length_m", func() interface{} { return c.Torch().MeasuredCutLengthMeters() })
	reg("next_cut_id", func() interface{} {
		p := c.Torch().NextProduct()
		if p == nil {
			return nil
		}
		return p.ProductId
	})
	reg("next_cut_aim_length_m", func() interface{} {
		p := c.Torch().NextProduct()
		if p == nil {
			return nil
		}
		return p.LengthAimMeters
	})

	// 当前炉次取中间包队首片段
	reg("current_heat_id", func() interface{} {
		f := tundishFragment(c, 0)
		if f == nil {
			return nil
		}
		return f.HeatId
	})
	reg("steel_grade", func() interface{} {
		f := tundishFragment(c, 0)
		if f == nil {
			return nil
		}
		return f.SteelGradeId
	})

	// 中间包前两个片段
	for i := 0; i < 2; i++ {
		idx := i
		reg(fmt.Sprintf("heat_%d_id", idx+1), func() interface{} {
			f := tundishFragment(c, idx)
			if f == nil {
				return nil
			}
			return f.HeatId
		})
		reg(fmt.Sprintf("heat_%d_weight", idx+1), func() interface{} {
			f := tundishFragment(c, idx)
			if f == nil {
				return nil
			}
			return f.WeightKg
		})
	}

	// 二冷各段流量
	for _, s := range c.Cooling().Sections() {
		section := s
		reg(fmt.Sprintf("cooling_section_%d", section.Id), func() interface{} {
			return section.CurrentFlowLps()
		})
	}
}

func tundishFragment(c *caster.Caster, idx int) *model.HeatFragment {
	frags := c.Tundish().Fragments()
	if idx >= len(frags) {
		return nil
	}
	return &frags[idx]
}
