package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"

	"lzsim/model"
)

// 引擎配置：从 conf/config.ini 读入并校验，显式传入各构造函数

type EngineConfig struct {
	// 铸机
	TorchLocationMeters      float64 `validate:"gt=8"`
	SteelDensity             float64 `validate:"gt=0"`
	TargetCastSpeedMetersMin float64 `validate:"gte=1,lte=10"`
	SpeedRampDurationSec     int     `validate:"gte=0,lte=90"`
	RotationDurationSec      int     `validate:"gte=10"`
	WidthMeters              float64 `validate:"gt=0"`
	ThicknessMeters          float64 `validate:"gt=0"`

	// 保留项，当前控制路径未引用
	TundishWeightFluctuationTolerance float64
	TundishWeightCorrectionFactor     float64
	MaxTundishWeightKg                float64
	RampUpThresholdKg                 float64
	LowPouringRateKgSec               float64
	HighPouringRateKgSec              float64
	SteadyStateRateKgSec              float64

	// 容器几何
	Ladle   model.ContainerDetails
	Tundish model.ContainerDetails
	Mold    model.ContainerDetails

	// 服务端
	ServerAddr string `validate:"required"`
}

func Load(path string) (*EngineConfig, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("配置文件读取错误: %w", err)
	}
	cfg := fromFile(file)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func fromFile(file *ini.File) *EngineConfig {
	caster := file.Section("caster")
	cfg := &EngineConfig{
		TorchLocationMeters:      caster.Key("TorchLocation").MustFloat64(30),
		SteelDensity:             caster.Key("SteelDensity").MustFloat64(7850),
		TargetCastSpeedMetersMin: caster.Key("TargetCastSpeed").MustFloat64(3),
		SpeedRampDurationSec:     caster.Key("SpeedRampDuration").MustInt(30),
		RotationDurationSec:      caster.Key("RotationDuration").MustInt(10),
		WidthMeters:              caster.Key("Width").MustFloat64(1.56),
		ThicknessMeters:          caster.Key("Thickness").MustFloat64(0.103),

		TundishWeightFluctuationTolerance: caster.Key("TundishWeightFluctuationTolerance").MustFloat64(0.1),
		TundishWeightCorrectionFactor:     caster.Key("TundishWeightCorrectionFactor").MustFloat64(1),
		MaxTundishWeightKg:                caster.Key("MaxTundishWeight").MustFloat64(28000),
		RampUpThresholdKg:                 caster.Key("RampUpThreshold").MustFloat64(6000),
		LowPouringRateKgSec:               caster.Key("LowPouringRate").MustFloat64(40),
		HighPouringRateKgSec:              caster.Key("HighPouringRate").MustFloat64(120),
		SteadyStateRateKgSec:              caster.Key("SteadyStateRate").MustFloat64(80),

		ServerAddr: file.Section("server").Key("Addr").MustString(":9000"),
	}

	ladle := file.Section("ladle")
	cfg.Ladle = model.ContainerDetails{
		Id:                   "ladle",
		WidthMeters:          ladle.Key("Width").MustFloat64(2.5),
		DepthMeters:          ladle.Key("Depth").MustFloat64(2.5),
		HeightMeters:         ladle.Key("Height").MustFloat64(4.0),
		MaxLevelMeters:       ladle.Key("MaxLevel").MustFloat64(3.8),
		ThresholdLevelMm:     ladle.Key("Threshold").MustFloat64(0),
		InitialFlowRateKgSec: ladle.Key("InitialFlowRate").MustFloat64(cfg.SteadyStateRateKgSec),
		MaxFlowRateKgSec:     ladle.Key("MaxFlowRate").MustFloat64(200),
		SteelDensity:         cfg.SteelDensity,
	}

	tundish := file.Section("tundish")
	cfg.Tundish = model.ContainerDetails{
		Id:                   "tundish",
		WidthMeters:          tundish.Key("Width").MustFloat64(3.876),
		DepthMeters:          tundish.Key("Depth").MustFloat64(1.550),
		HeightMeters:         tundish.Key("MaxLevel").MustFloat64(1.181),
		MaxLevelMeters:       tundish.Key("MaxLevel").MustFloat64(1.181),
		ThresholdLevelMm:     tundish.Key("Threshold").MustFloat64(127),
		InitialFlowRateKgSec: tundish.Key("InitialFlowRate").MustFloat64(30),
		MaxFlowRateKgSec:     tundish.Key("MaxFlowRate").MustFloat64(150),
		SteelDensity:         cfg.SteelDensity,
	}

	mold := file.Section("mold")
	cfg.Mold = model.ContainerDetails{
		Id:               "mold",
		WidthMeters:      mold.Key("Width").MustFloat64(cfg.WidthMeters),
		DepthMeters:      mold.Key("Depth").MustFloat64(cfg.ThicknessMeters),
		HeightMeters:     mold.Key("Height").MustFloat64(1.2),
		MaxLevelMeters:   mold.Key("MaxLevel").MustFloat64(1.1),
		ThresholdLevelMm: mold.Key("Threshold").MustFloat64(800),
		MaxFlowRateKgSec: mold.Key("MaxFlowRate").MustFloat64(150),
		SteelDensity:     cfg.SteelDensity,
	}
	return cfg
}

// 结晶器断面 m²
func (c *EngineConfig) MoldCrossSectionM2() float64 {
	return c.WidthMeters * c.ThicknessMeters
}
