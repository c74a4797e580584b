package model

import "time"

// 连铸机仿真的核心数据模型

// 钢种目录条目，只读
type SteelGrade struct {
	SteelGradeId        string             `json:"steel_grade_id"`
	SteelGradeGroup     string             `json:"steel_grade_group"`
	LiquidusTemperatureC float64           `json:"liquidus_temperature_c"`
	Description         string             `json:"description"`
	TargetSuperheatC    float64            `json:"target_superheat_c"`
	Chemistry           []ChemistryElement `json:"chemistry"`
}

type ChemistryElement struct {
	ElementName string  `json:"element_name"`
	Percentage  float64 `json:"percentage"`
}

// 炉次状态，只能单调推进
type HeatStatus int

const (
	HeatStatusNew HeatStatus = iota
	HeatStatusNext
	HeatStatusPouring
	HeatStatusClosed
	HeatStatusCasting
	HeatStatusCutting
	HeatStatusCast
)

var heatStatusNames = map[HeatStatus]string{
	HeatStatusNew:     "New",
	HeatStatusNext:    "Next",
	HeatStatusPouring: "Pouring",
	HeatStatusClosed:  "Closed",
	HeatStatusCasting: "Casting",
	HeatStatusCutting: "Cutting",
	HeatStatusCast:    "Cast",
}

func (s HeatStatus) String() string {
	if name, ok := heatStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// 一个炉次：一批钢水
type Heat struct {
	Id                      int        `json:"id"`
	Name                    string     `json:"name"`
	NetWeightKg             float64    `json:"net_weight_kg"`
	SteelGradeId            string     `json:"steel_grade_id"`
	Status                  HeatStatus `json:"status"`
	OpenTimeUtc             *time.Time `json:"open_time_utc"`
	CloseTimeUtc            *time.Time `json:"close_time_utc"`
	CastingTimeUtc          *time.Time `json:"casting_time_utc"`
	CastLengthAtStartMeters float64    `json:"cast_length_at_start_meters"`
	HeatBoundaryMeters      float64    `json:"heat_boundary_meters"`
}

// 容器中流转的钢水片段
type HeatFragment struct {
	HeatId           int     `json:"heat_id"`
	WeightKg         float64 `json:"weight_kg"`
	SteelGradeId     string  `json:"steel_grade_id"`
	LiquidusC        float64 `json:"liquidus_c"`
	TargetSuperheatC float64 `json:"target_superheat_c"`
}

const ProductTypeSlab = "Slab"

// 计划切割的产品
type Product struct {
	SequenceId            string  `json:"sequence_id"`
	CutNumber             int     `json:"cut_number"`
	ProductId             string  `json:"product_id"`
	Type                  string  `json:"type"`
	Planned               bool    `json:"planned"`
	LengthAimMeters       float64 `json:"length_aim_meters"`
	LengthMinMeters       float64 `json:"length_min_meters"`
	LengthMaxMeters       float64 `json:"length_max_meters"`
	CutLengthMeters       float64 `json:"cut_length_meters"`
	WidthMeters           float64 `json:"width_meters"`
	ThicknessMeters       float64 `json:"thickness_meters"`
	WeightKg              float64 `json:"weight_kg"`
	CastLengthStartMeters float64 `json:"cast_length_start_meters"`
}

// 产品复制，优化器写时复制用
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// 钢水密度缺省值 kg/m³
const DefaultSteelDensity = 7850.0

// 容器几何与流量配置
type ContainerDetails struct {
	Id                   string  `json:"id"`
	WidthMeters          float64 `json:"width_meters"`
	DepthMeters          float64 `json:"depth_meters"`
	HeightMeters         float64 `json:"height_meters"`
	MaxLevelMeters       float64 `json:"max_level_meters"`
	ThresholdLevelMm     float64 `json:"threshold_level_mm"`
	InitialFlowRateKgSec float64 `json:"initial_flow_rate_kg_sec"`
	MaxFlowRateKgSec     float64 `json:"max_flow_rate_kg_sec"`
	SteelDensity         float64 `json:"steel_density"`
}

func (d ContainerDetails) Density() float64 {
	if d.SteelDensity > 0 {
		return d.SteelDensity
	}
	return DefaultSteelDensity
}
