package config

import (
	"encoding/json"
	"fmt"
	"os"

	"lzsim/casting_machine"
	"lzsim/model"
)

// 二冷配置：conf/cooling.json

type CoolingConfig struct {
	BaseFlowLps     float64          `json:"base_flow_lps"`
	FlowPerSpeedLps float64          `json:"flow_per_speed_lps"`
	Sections        []CoolingSection `json:"sections"`
}

type CoolingSection struct {
	Id             int      `json:"id"`
	PositionFactor float64  `json:"position_factor"`
	StartPosition  float64  `json:"start_position"`
	EndPosition    float64  `json:"end_position"`
	Nozzles        []Nozzle `json:"nozzles"`
}

type Nozzle struct {
	Type     string  `json:"type"`
	Position float64 `json:"position"`
}

func LoadCooling(path string) (*CoolingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("二冷配置读取失败: %w", err)
	}
	var cfg CoolingConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("二冷配置解析失败: %w", err)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("二冷配置无分段: %w", model.ErrInvalidConfig)
	}
	return &cfg, nil
}

// 转为冷却控制器的分段描述
func (c *CoolingConfig) SectionList() []casting_machine.CoolingSection {
	out := make([]casting_machine.CoolingSection, 0, len(c.Sections))
	for _, s := range c.Sections {
		out = append(out, casting_machine.CoolingSection{
			Id:             s.Id,
			PositionFactor: s.PositionFactor,
			StartPosition:  s.StartPosition,
			EndPosition:    s.EndPosition,
		})
	}
	return out
}
