package canopy

import (
	"fmt"
	"time"
)

// tickStats holds the phase timings of one tick. Only populated when
// Config.Debug is true.
type tickStats struct {
	updateTime time.Duration
	renderTime time.Duration
	blitTime   time.Duration
	nodes      int
}

// frameStats keeps a rolling window of tick intervals in milliseconds.
type frameStats struct {
	samples []float64
	next    int
	filled  bool
	last    tickStats
}

func newFrameStats(n int) *frameStats {
	if n <= 0 {
		n = 1
	}
	return &frameStats{samples: make([]float64, n)}
}

// record adds the interval between two consecutive ticks.
func (s *frameStats) record(interval float64) {
	s.samples[s.next] = interval
	s.next++
	if s.next == len(s.samples) {
		s.next = 0
		s.filled = true
	}
}

// average returns the mean interval over the recorded window, or 0 when
// nothing has been recorded yet.
func (s *frameStats) average() float64 {
	n := s.next
	if s.filled {
		n = len(s.samples)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.samples[:n] {
		sum += v
	}
	return sum / float64(n)
}

// overlay formats the average tick interval, the effective rate and the
// configured rate, e.g. "16.67ms 60.0/60 fps".
func (s *frameStats) overlay(frameRate int) string {
	avg := s.average()
	fps := 0.0
	if avg > 0 {
		fps = 1000 / avg
	}
	return fmt.Sprintf("%.2fms %.1f/%d fps", avg, fps, frameRate)
}

// debugLog writes the phase timings of the last tick at debug level.
func (e *Engine) debugLog(ts float64, stats tickStats) {
	if !e.cfg.Debug {
		return
	}
	e.stats.last = stats
	Logger().Debug("tick",
		"ts", ts,
		"update", stats.updateTime,
		"render", stats.renderTime,
		"blit", stats.blitTime,
		"nodes", stats.nodes,
		"hookFaults", hookFaults)
}

// debugMaxTreeDepth is the nesting depth above which countNodes warns.
const debugMaxTreeDepth = 32

// countNodes returns the number of nodes on the stage and warns once per
// call when layers nest deeper than debugMaxTreeDepth.
func countNodes(s *Stage) int {
	total := 0
	deepest := 0
	var walk func(l *Layer, depth int)
	walk = func(l *Layer, depth int) {
		total++
		deepest = max(deepest, depth)
		for _, n := range l.children {
			if sub, ok := n.(*Layer); ok {
				walk(sub, depth+1)
				continue
			}
			total++
		}
	}
	for _, l := range s.layers {
		walk(l, 1)
	}
	if deepest > debugMaxTreeDepth {
		Logger().Warn("layer tree is deep", "depth", deepest, "threshold", debugMaxTreeDepth)
	}
	return total
}
