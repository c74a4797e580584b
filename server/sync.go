package server

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"lzsim/model"
	"lzsim/schedule"
	"lzsim/sim"
)

// 每秒把仿真侧的炉次表和产品队列刷进存储，
// 刷新失败只记日志，不影响仿真

type Syncer struct {
	cron *cron.Cron
}

func StartSync(store *Store, clock *sim.Clock, seq *schedule.Sequence) (*Syncer, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("@every 1s", func() {
		var heats []model.Heat
		var cuts, products []model.Product
		clock.Do(func() {
			for _, id := range seq.HeatOrder() {
				heats = append(heats, *seq.Heats[id])
			}
			for _, p := range seq.Products.Snapshot() {
				cuts = append(cuts, *p)
			}
			for _, p := range seq.CutProducts.Snapshot() {
				products = append(products, *p)
			}
		})
		if err := store.ReplaceHeats(heats); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("炉次表刷新失败")
		}
		if err := store.ReplaceProducts(ResourceCutSchedule, cuts); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("切割计划刷新失败")
		}
		if err := store.ReplaceProducts(ResourceProducts, products); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("成品表刷新失败")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return &Syncer{cron: c}, nil
}

func (s *Syncer) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
