package server

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lzsim/model"
)

// 进程内存储：sqlite 内存库支撑三个 REST 资源
// POST 整表替换，GET 列出全部

const (
	ResourceCutSchedule = "cut_schedule"
	ResourceProducts    = "products"
)

type HeatRecord struct {
	ID                      uint `gorm:"primaryKey"`
	HeatId                  int
	Name                    string
	NetWeightKg             float64
	SteelGradeId            string
	Status                  string
	OpenTimeUtc             *time.Time
	CloseTimeUtc            *time.Time
	CastingTimeUtc          *time.Time
	CastLengthAtStartMeters float64
	HeatBoundaryMeters      float64
}

type ProductRecord struct {
	ID                    uint   `gorm:"primaryKey"`
	Resource              string `gorm:"index"`
	SequenceId            string
	CutNumber             int
	ProductId             string
	Type                  string
	Planned               bool
	LengthAimMeters       float64
	LengthMinMeters       float64
	LengthMaxMeters       float64
	CutLengthMeters       float64
	WidthMeters           float64
	ThicknessMeters       float64
	WeightKg              float64
	CastLengthStartMeters float64
}

type Store struct {
	db *gorm.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&HeatRecord{}, &ProductRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func NewMemoryStore() (*Store, error) {
	return NewStore("file::memory:?cache=shared")
}

func (s *Store) ReplaceHeats(heats []model.Heat) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&HeatRecord{}).Error; err != nil {
			return err
		}
		for _, h := range heats {
			rec := heatToRecord(h)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListHeats() ([]model.Heat, error) {
	var recs []HeatRecord
	if err := s.db.Order("heat_id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.Heat, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordToHeat(r))
	}
	return out, nil
}

func (s *Store) ReplaceProducts(resource string, products []model.Product) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource = ?", resource).Delete(&ProductRecord{}).Error; err != nil {
			return err
		}
		for _, p := range products {
			rec := productToRecord(resource, p)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListProducts(resource string) ([]model.Product, error) {
	var recs []ProductRecord
	if err := s.db.Where("resource = ?", resource).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordToProduct(r))
	}
	return out, nil
}

func heatToRecord(h model.Heat) HeatRecord {
	return HeatRecord{
		HeatId:                  h.Id,
		Name:                    h.Name,
		NetWeightKg:             h.NetWeightKg,
		SteelGradeId:            h.SteelGradeId,
		Status:                  h.Status.String(),
		OpenTimeUtc:             h.OpenTimeUtc,
		CloseTimeUtc:            h.CloseTimeUtc,
		CastingTimeUtc:          h.CastingTimeUtc,
		CastLengthAtStartMeters: h.CastLengthAtStartMeters,
		HeatBoundaryMeters:      h.HeatBoundaryMeters,
	}
}

func recordToHeat(r HeatRecord) model.Heat {
	h := model.Heat{
		Id:                      r.HeatId,
		Name:                    r.Name,
		NetWeightKg:             r.NetWeightKg,
		SteelGradeId:            r.SteelGradeId,
		OpenTimeUtc:             r.OpenTimeUtc,
		CloseTimeUtc:            r.CloseTimeUtc,
		CastingTimeUtc:          r.CastingTimeUtc,
		CastLengthAtStartMeters: r.CastLengthAtStartMeters,
		HeatBoundaryMeters:      r.HeatBoundaryMeters,
	}
	for status := model.HeatStatusNew; status <= model.HeatStatusCast; status++ {
		if status.String() == r.Status {
			h.Status = status
			break
		}
	}
	return h
}

func productToRecord(resource string, p model.Product) ProductRecord {
	return ProductRecord{
		Resource:              resource,
		SequenceId:            p.SequenceId,
		CutNumber:             p.CutNumber,
		ProductId:             p.ProductId,
		Type:                  p.Type,
		Planned:               p.Planned,
		LengthAimMeters:       p.LengthAimMeters,
		LengthMinMeters:       p.LengthMinMeters,
		LengthMaxMeters:       p.LengthMaxMeters,
		CutLengthMeters:       p.CutLengthMeters,
		WidthMeters:           p.WidthMeters,
		ThicknessMeters:       p.ThicknessMeters,
		WeightKg:              p.WeightKg,
		CastLengthStartMeters: p.CastLengthStartMeters,
	}
}

func recordToProduct(r ProductRecord) model.Product {
	return model.Product{
		SequenceId:            r.SequenceId,
		CutNumber:             r.CutNumber,
		ProductId:             r.ProductId,
		Type:                  r.Type,
		Planned:               r.Planned,
		LengthAimMeters:       r.LengthAimMeters,
		LengthMinMeters:       r.LengthMinMeters,
		LengthMaxMeters:       r.LengthMaxMeters,
		CutLengthMeters:       r.CutLengthMeters,
		WidthMeters:           r.WidthMeters,
		ThicknessMeters:       r.ThicknessMeters,
		WeightKg:              r.WeightKg,
		CastLengthStartMeters: r.CastLengthStartMeters,
	}
}
