package world

import "time"

const (
	AnimationInterval         = 5 * time.Millisecond
	AnimationStep     float32 = 10
	AnimationLimit    float32 = -500
)

// Animator moves the camera dolly forward one step per tick until the travel
// limit is reached. Ticks are delivered by the host loop on the render
// thread; Advance turns elapsed wall time into whole ticks.
type Animator struct {
	Interval time.Duration
	Step     float32
	Limit    float32

	// OnTick, when set, runs after every step with the new Z offset.
	OnTick func(offsetZ float32)

	running bool
	pending time.Duration
}

func NewAnimator() *Animator {
	return &Animator{
		Interval: AnimationInterval,
		Step:     AnimationStep,
		Limit:    AnimationLimit,
	}
}

func (a *Animator) Running() bool {
	return a.running
}

// Start (re)starts the timer, dropping any partial interval.
func (a *Animator) Start() {
	a.running = true
	a.pending = 0
}

func (a *Animator) Stop() {
	a.running = false
	a.pending = 0
}

// Due consumes elapsed time and reports how many whole intervals passed.
func (a *Animator) Due(elapsed time.Duration) int {
	if !a.running || elapsed <= 0 || a.Interval <= 0 {
		return 0
	}
	a.pending += elapsed
	n := int(a.pending / a.Interval)
	a.pending -= time.Duration(n) * a.Interval
	return n
}

// step advances s by one tick and stops the timer once the limit is reached,
// resetting the offsets and clearing the active flag.
func (a *Animator) step(s *RenderState) {
	if !a.running {
		return
	}
	s.AnimationOffsetZ -= a.Step
	if a.OnTick != nil {
		a.OnTick(s.AnimationOffsetZ)
	}
	if s.AnimationOffsetZ <= a.Limit {
		a.reset(s)
	}
}

func (a *Animator) reset(s *RenderState) {
	s.AnimationOffsetX = 0
	s.AnimationOffsetZ = 0
	s.AnimationActive = false
	a.Stop()
}
