package telemetry

import (
	log "github.com/sirupsen/logrus"
)

// 把每帧指标落到结构化日志

type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Publish(area string, metrics map[string]interface{}) error {
	fields := make(log.Fields, len(metrics))
	for k, v := range metrics {
		fields[k] = v
	}
	log.WithFields(fields).WithField("area", area).Debug("指标帧")
	return nil
}
