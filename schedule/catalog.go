package schedule

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"lzsim/model"
)

// 钢种目录：启动时从 conf 加载一次，按钢种号索引，只读

type Catalog struct {
	grades map[string]model.SteelGrade
	ids    []string
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("钢种目录读取失败: %w", err)
	}
	var grades []model.SteelGrade
	if err := json.Unmarshal(data, &grades); err != nil {
		return nil, fmt.Errorf("钢种目录解析失败: %w", err)
	}
	if len(grades) == 0 {
		return nil, fmt.Errorf("钢种目录为空: %w", model.ErrInvalidConfig)
	}
	c := NewCatalog(grades)
	log.WithFields(log.Fields{"grades": len(c.ids)}).Info("钢种目录加载完成")
	return c, nil
}

func NewCatalog(grades []model.SteelGrade) *Catalog {
	c := &Catalog{grades: make(map[string]model.SteelGrade)}
	for _, g := range grades {
		if _, ok := c.grades[g.SteelGradeId]; !ok {
			c.ids = append(c.ids, g.SteelGradeId)
		}
		c.grades[g.SteelGradeId] = g
	}
	sort.Strings(c.ids)
	return c
}

func (c *Catalog) Get(id string) (model.SteelGrade, bool) {
	g, ok := c.grades[id]
	return g, ok
}

func (c *Catalog) Random(rng *rand.Rand) model.SteelGrade {
	return c.grades[c.ids[rng.Intn(len(c.ids))]]
}

func (c *Catalog) Size() int {
	return len(c.ids)
}
