package schedule

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"lzsim/model"
)

const catalogJson = `[
  {"steel_grade_id": "304", "steel_grade_group": "Austenitic", "liquidus_temperature_c": 1450,
   "description": "不锈钢 304", "target_superheat_c": 25,
   "chemistry": [{"element_name": "C", "percentage": 0.08}, {"element_name": "Cr", "percentage": 18}]},
  {"steel_grade_id": "S235", "steel_grade_group": "Structural", "liquidus_temperature_c": 1520,
   "description": "结构钢", "target_superheat_c": 30, "chemistry": []}
]`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steel_grades.json")
	if err := os.WriteFile(path, []byte(catalogJson), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t))
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if c.Size() != 2 {
		t.Fatalf("钢种数错误: %d", c.Size())
	}
	g, ok := c.Get("304")
	if !ok || g.LiquidusTemperatureC != 1450 || g.TargetSuperheatC != 25 {
		t.Fatalf("钢种内容错误: %+v", g)
	}
	if len(g.Chemistry) != 2 || g.Chemistry[1].ElementName != "Cr" {
		t.Fatalf("化学成分错误: %+v", g.Chemistry)
	}
}

func TestLoadCatalog_Missing(t *testing.T) {
	if _, err := LoadCatalog("/no/such/file.json"); err == nil {
		t.Fatalf("缺失文件应报错")
	}
}

func TestCatalog_Random(t *testing.T) {
	c := NewCatalog([]model.SteelGrade{
		{SteelGradeId: "a"}, {SteelGradeId: "b"},
	})
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[c.Random(rng).SteelGradeId] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("随机选取未覆盖全部钢种: %v", seen)
	}
}
