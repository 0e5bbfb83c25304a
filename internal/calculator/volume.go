package calculator

import "MarketAdvisor/internal/model"

// VolumeRatio returns the rolling volume average and each bar's volume
// divided by it. The ratio is undefined where the average is undefined or zero.
func VolumeRatio(volumes []float64, period int) (avg, ratio model.Column) {
	avg = SMA(volumes, period)
	ratio = model.Undefined(len(volumes))
	for i, v := range volumes {
		a, ok := avg.Get(i)
		if !ok || a == 0 {
			continue
		}
		ratio[i] = v / a
	}
	return avg, ratio
}
