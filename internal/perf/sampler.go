package perf

// DefaultWindowSize is the number of frames averaged for FPS estimates.
const DefaultWindowSize = 45

// Sample is one frame observation.
type Sample struct {
	TimestampMs float64
	FPS         float64
}

// Sampler maintains a fixed sliding window of frame times and reports the
// mean FPS over it. It measures only; quality decisions live elsewhere.
type Sampler struct {
	window []Sample
	head   int
	count  int
	lastMs float64
	seen   int
}

func NewSampler(windowSize int) *Sampler {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Sampler{window: make([]Sample, windowSize)}
}

// RecordFrame ingests one frame boundary timestamp in milliseconds.
// The first call only seeds the previous-frame time.
func (s *Sampler) RecordFrame(nowMs float64) {
	defer func() { s.lastMs = nowMs }()
	s.seen++
	if s.seen == 1 {
		return
	}

	dt := nowMs - s.lastMs
	if dt <= 0 {
		return
	}

	s.window[s.head] = Sample{TimestampMs: nowMs, FPS: 1000.0 / dt}
	s.head = (s.head + 1) % len(s.window)
	if s.count < len(s.window) {
		s.count++
	}
}

// CurrentFPS returns the arithmetic mean FPS over the window, or 0 when no
// frame interval has been observed yet.
func (s *Sampler) CurrentFPS() float64 {
	if s.count == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < s.count; i++ {
		sum += s.window[i].FPS
	}
	return sum / float64(s.count)
}

// WindowFull reports whether a complete window has accumulated. The quality
// controller gates its transitions on this to avoid single-frame noise.
func (s *Sampler) WindowFull() bool {
	return s.count == len(s.window)
}

// WindowSize returns the configured window length.
func (s *Sampler) WindowSize() int { return len(s.window) }

// History returns FPS values oldest-first, for monitoring plots.
func (s *Sampler) History() []float64 {
	out := make([]float64, 0, s.count)
	start := 0
	if s.count == len(s.window) {
		start = s.head
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.window[(start+i)%len(s.window)].FPS)
	}
	return out
}

// Reset clears the window, e.g. after a context restore so stale pre-loss
// samples do not feed the controller.
func (s *Sampler) Reset() {
	s.head = 0
	s.count = 0
	s.seen = 0
	s.lastMs = 0
}
