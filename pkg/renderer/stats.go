package renderer

import "time"

// RenderStats summarizes a finished (or cancelled) render.
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	Passes         int
	Elapsed        time.Duration
}

// SamplesPerSecond returns the overall sampling throughput.
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Elapsed <= 0 {
		return 0
	}
	return float64(rs.TotalSamples) / rs.Elapsed.Seconds()
}
