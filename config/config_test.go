package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lzsim/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.ini", "[caster]\n"))
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if cfg.TorchLocationMeters != 30 || cfg.SteelDensity != 7850 {
		t.Fatalf("缺省值错误: %+v", cfg)
	}
	if cfg.Tundish.ThresholdLevelMm != 127 || cfg.Mold.ThresholdLevelMm != 800 {
		t.Fatalf("容器阈值缺省错误: %+v", cfg)
	}
	// 结晶器断面缺省取铸坯断面
	if cfg.Mold.WidthMeters != cfg.WidthMeters || cfg.Mold.DepthMeters != cfg.ThicknessMeters {
		t.Fatalf("结晶器断面缺省错误: %+v", cfg.Mold)
	}
}

func TestLoad_Overrides(t *testing.T) {
	content := `[caster]
TorchLocation = 25
TargetCastSpeed = 2.5
SpeedRampDuration = 45
RotationDuration = 15
LowPouringRate = 55

[tundish]
InitialFlowRate = 35

[server]
Addr = :8088
`
	cfg, err := Load(writeFile(t, "config.ini", content))
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if cfg.TorchLocationMeters != 25 || cfg.TargetCastSpeedMetersMin != 2.5 ||
		cfg.SpeedRampDurationSec != 45 || cfg.RotationDurationSec != 15 {
		t.Fatalf("覆盖值错误: %+v", cfg)
	}
	if cfg.LowPouringRateKgSec != 55 {
		t.Fatalf("保留项未读入: %f", cfg.LowPouringRateKgSec)
	}
	if cfg.Tundish.InitialFlowRateKgSec != 35 {
		t.Fatalf("中间包初始流量错误: %f", cfg.Tundish.InitialFlowRateKgSec)
	}
	if cfg.ServerAddr != ":8088" {
		t.Fatalf("服务地址错误: %s", cfg.ServerAddr)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	cases := []string{
		"[caster]\nTargetCastSpeed = 0.5\n",
		"[caster]\nTargetCastSpeed = 12\n",
		"[caster]\nSpeedRampDuration = 100\n",
		"[caster]\nRotationDuration = 5\n",
		"[caster]\nTorchLocation = 3\n",
	}
	for _, content := range cases {
		_, err := Load(writeFile(t, "config.ini", content))
		if !errors.Is(err, model.ErrInvalidConfig) {
			t.Fatalf("越界配置应失败: %q -> %v", content, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.ini"); err == nil {
		t.Fatalf("缺失文件应报错")
	}
}

func TestLoadCooling(t *testing.T) {
	content := `{
  "base_flow_lps": 10,
  "flow_per_speed_lps": 2.5,
  "sections": [
    {"id": 1, "position_factor": 1.0, "start_position": 0, "end_position": 3,
     "nozzles": [{"type": "air-mist", "position": 0.8}]}
  ]
}`
	cfg, err := LoadCooling(writeFile(t, "cooling.json", content))
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if cfg.BaseFlowLps != 10 || len(cfg.Sections) != 1 {
		t.Fatalf("二冷配置错误: %+v", cfg)
	}
	sections := cfg.SectionList()
	if len(sections) != 1 || sections[0].Id != 1 || sections[0].EndPosition != 3 {
		t.Fatalf("分段转换错误: %+v", sections)
	}
}

func TestLoadCooling_Empty(t *testing.T) {
	_, err := LoadCooling(writeFile(t, "cooling.json", `{"base_flow_lps": 1, "sections": []}`))
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("无分段应失败: %v", err)
	}
}
