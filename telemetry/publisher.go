package telemetry

import (
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// 指标发布器：每秒求值全部注册的指标源，按 area 分组后扇出到各接收端
// 单个指标源求值失败按缺席处理，单个接收端失败只影响它自己

type Provider func() interface{}

type Sink interface {
	Publish(area string, metrics map[string]interface{}) error
}

type registration struct {
	name string
	area string
	fn   Provider
}

type Publisher struct {
	mu    sync.Mutex
	regs  []registration
	sinks []Sink
	cron  *cron.Cron

	// 串行进入引擎取数，通常传 clock.Do
	sync func(func())
}

func NewPublisher(sync func(func())) *Publisher {
	if sync == nil {
		sync = func(fn func()) { fn() }
	}
	return &Publisher{sync: sync}
}

func (p *Publisher) Register(name string, fn Provider, area string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regs = append(p.regs, registration{name: name, area: area, fn: fn})
}

func (p *Publisher) AddSink(s Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks = append(p.sinks, s)
}

func (p *Publisher) Start() error {
	p.cron = cron.New(cron.WithSeconds())
	if _, err := p.cron.AddFunc("@every 1s", p.PublishOnce); err != nil {
		return err
	}
	p.cron.Start()
	log.Info("指标发布器启动")
	return nil
}

func (p *Publisher) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

// 采集并扇出一帧
func (p *Publisher) PublishOnce() {
	p.mu.Lock()
	regs := make([]registration, len(p.regs))
	copy(regs, p.regs)
	sinks := make([]Sink, len(p.sinks))
	copy(sinks, p.sinks)
	p.mu.Unlock()

	areas := make(map[string]map[string]interface{})
	p.sync(func() {
		for _, r := range regs {
			v := evaluate(r)
			if v == nil {
				continue
			}
			if areas[r.area] == nil {
				areas[r.area] = make(map[string]interface{})
			}
			areas[r.area][r.name] = v
		}
	})

	for area, metrics := range areas {
		for _, s := range sinks {
			publishTo(s, area, metrics)
		}
	}
}

// 求值失败按缺席处理
func evaluate(r registration) (v interface{}) {
	defer func() {
		if err := recover(); err != nil {
			log.WithFields(log.Fields{"metric": r.name, "err": err}).Warn("指标求值失败")
			v = nil
		}
	}()
	switch raw := r.fn().(type) {
	case float64, float32, int, int64, uint64, bool, string:
		return raw
	case nil:
		return nil
	default:
		return nil
	}
}

func publishTo(s Sink, area string, metrics map[string]interface{}) {
	defer func() {
		if err := recover(); err != nil {
			log.WithFields(log.Fields{"area": area, "err": err}).Warn("接收端异常")
		}
	}()
	if err := s.Publish(area, metrics); err != nil {
		log.WithFields(log.Fields{"area": area, "err": err}).Warn("接收端发布失败")
	}
}
