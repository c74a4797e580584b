package main

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"lzsim/caster"
	"lzsim/casting_machine"
	"lzsim/config"
	"lzsim/schedule"
	"lzsim/server"
	"lzsim/sim"
	"lzsim/telemetry"
	"lzsim/tracking"
)

func main() {
	cfg, err := config.Load("conf/config.ini")
	if err != nil {
		log.Fatal("配置加载失败: ", err)
	}
	coolingCfg, err := config.LoadCooling("conf/cooling.json")
	if err != nil {
		log.Fatal("二冷配置加载失败: ", err)
	}
	catalog, err := schedule.LoadCatalog("conf/steel_grades.json")
	if err != nil {
		log.Fatal("钢种目录加载失败: ", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	clock := sim.NewClock(time.Now().UTC())
	cooling := casting_machine.NewCoolingSectionController(
		coolingCfg.BaseFlowLps, coolingCfg.FlowPerSpeedLps, coolingCfg.SectionList())

	cst, err := caster.NewCaster(clock, cfg, cooling, rng)
	if err != nil {
		log.Fatal("铸机构建失败: ", err)
	}
	seq, err := schedule.BuildSequence(catalog,
		cfg.WidthMeters, cfg.ThicknessMeters, cfg.SteelDensity, cfg.TorchLocationMeters,
		time.Now(), rng)
	if err != nil {
		log.Fatal("浇次构建失败: ", err)
	}
	tracker := tracking.NewTracker(clock, cst, seq, catalog, rng)

	store, err := server.NewMemoryStore()
	if err != nil {
		log.Fatal("存储初始化失败: ", err)
	}
	hub := server.NewHub()

	publisher := telemetry.NewPublisher(clock.Do)
	telemetry.RegisterOverview(publisher, cst)
	publisher.AddSink(telemetry.NewLogSink())
	publisher.AddSink(hub)
	if err := publisher.Start(); err != nil {
		log.Fatal("指标发布器启动失败: ", err)
	}
	if _, err := server.StartSync(store, clock, seq); err != nil {
		log.Fatal("存储同步启动失败: ", err)
	}

	ctx := context.Background()
	go clock.Run(ctx)
	go func() {
		if err := tracker.StartSequence(ctx); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("浇次中断")
			return
		}
		log.Info("浇次全部完成")
	}()

	srv := server.NewServer(cfg.ServerAddr, store, hub)
	if err := srv.Serve(); err != nil {
		log.Fatal("服务退出: ", err)
	}
}
