package container

import (
	"lzsim/model"
	"lzsim/sim"
)

// 结晶器：固定几何的水冷容器，只参与基类的物料机制
// 截面与铸坯断面一致，液位阈值 800mm

const DefaultMoldThresholdMm = 800

func DefaultMoldDetails(widthMeters, thicknessMeters, density float64) model.ContainerDetails {
	return model.ContainerDetails{
		Id:               "mold",
		WidthMeters:      widthMeters,
		DepthMeters:      thicknessMeters,
		HeightMeters:     1.2,
		MaxLevelMeters:   1.1,
		ThresholdLevelMm: DefaultMoldThresholdMm,
		MaxFlowRateKgSec: DefaultTundishMaxFlowKgSec,
		SteelDensity:     density,
	}
}

type Mold struct {
	*SteelContainer
}

func NewMold(clock *sim.Clock, details model.ContainerDetails) *Mold {
	return &Mold{SteelContainer: NewSteelContainer(clock, details)}
}
