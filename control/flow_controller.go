package control

// 液位比例控制器：按液位偏差计算新流量，带增益下限和单步变化限幅
// 纯函数，不持有状态

func ComputeFlowRate(monitoredLevelMm, currentFlow, maxFlow, targetLevelMm, tolerancePercent float64) float64 {
	toleranceMm := targetLevelMm * tolerancePercent / 100
	err := monitoredLevelMm - targetLevelMm

	correctionFactor := 0.5
	if toleranceMm > 0 {
		if f := abs(err) / toleranceMm; f > correctionFactor {
			correctionFactor = f
		}
	}
	correction := -correctionFactor * err

	flowRateChangeLimit := maxFlow * tolerancePercent / 100
	if flowRateChangeLimit < 10 {
		flowRateChangeLimit = 10
	}

	target := currentFlow + correction
	adjusted := clamp(target, currentFlow-flowRateChangeLimit, currentFlow+flowRateChangeLimit)
	return clamp(adjusted, 0, maxFlow)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
