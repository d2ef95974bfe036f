package core

import "github.com/spaghettifunk/anima-imgui/engine/containers"

const AVG_COUNT uint8 = 30

// Metrics keeps a frame time average over blocks of AVG_COUNT frames and a
// frames-per-second counter.
type Metrics struct {
	msTimes            *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		msTimes: containers.NewRingQueue[float64](int(AVG_COUNT)),
	}
}

// Update records one frame that took frameElapsedTime seconds.
// It reports true once per accumulated second, when the FPS value is refreshed.
func (m *Metrics) Update(frameElapsedTime float64) bool {
	frameMS := frameElapsedTime * 1000.0
	// never full here: the queue is drained as soon as it fills up
	_ = m.msTimes.Enqueue(frameMS)
	if m.msTimes.IsFull() {
		sum := 0.0
		for !m.msTimes.IsEmpty() {
			ms, _ := m.msTimes.Dequeue()
			sum += ms
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}

	m.frames++

	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
		return true
	}
	return false
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the last full block of AVG_COUNT frames.
func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
