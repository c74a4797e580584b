package casting_machine

import "lzsim/model"

// 拉速线性爬升：duration 秒内从 startSpeed 匀速升到 targetSpeed，
// 之后恒定返回 targetSpeed

type SpeedController struct {
	startSpeed  float64
	targetSpeed float64
	durationSec int
	elapsedSec  int
}

func NewSpeedController(startSpeed, targetSpeed float64, durationSec int) (*SpeedController, error) {
	if startSpeed < 0 {
		return nil, model.ErrInvalidConfig
	}
	if targetSpeed < 1 || targetSpeed > 10 {
		return nil, model.ErrInvalidConfig
	}
	if durationSec < 0 || durationSec > 90 {
		return nil, model.ErrInvalidConfig
	}
	return &SpeedController{
		startSpeed:  startSpeed,
		targetSpeed: targetSpeed,
		durationSec: durationSec,
	}, nil
}

// 每秒调用一次，返回当前拉速 m/min
func (s *SpeedController) Next() float64 {
	if s.durationSec == 0 || s.elapsedSec >= s.durationSec {
		return s.targetSpeed
	}
	v := s.startSpeed + float64(s.elapsedSec)/float64(s.durationSec)*(s.targetSpeed-s.startSpeed)
	s.elapsedSec++
	return v
}
