package arena

import (
	"sync"
	"sync/atomic"
	"time"
)

const DefaultFlashHold = 500 * time.Millisecond

// GoalFlash paints every ground with a goal material and puts the
// default back after Hold. It only changes colours and runs on its own
// timer, so it never blocks the arbiter.
type GoalFlash struct {
	hold    time.Duration
	grounds []Ground

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewGoalFlash(hold time.Duration, grounds ...Ground) *GoalFlash {
	return &GoalFlash{hold: hold, grounds: grounds}
}

func (g *GoalFlash) Flash(m Material) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// A new goal supersedes the pending revert.
	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen

	g.paint(m)
	g.timer = time.AfterFunc(g.hold, func() { g.revert(gen) })
}

func (g *GoalFlash) revert(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Stop can lose the race with a timer that already fired.
	if gen != g.gen {
		return
	}
	g.timer = nil
	g.paint(MaterialDefault)
}

// Stop cancels a pending revert and leaves the default material in place.
func (g *GoalFlash) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
	g.paint(MaterialDefault)
}

func (g *GoalFlash) paint(m Material) {
	for _, gr := range g.grounds {
		gr.Paint(m)
	}
}

// Floor is a Ground that remembers its material. It can be read from
// any goroutine while a flash timer repaints it.
type Floor struct {
	m atomic.Value
}

func NewFloor() *Floor {
	f := &Floor{}
	f.m.Store(MaterialDefault)
	return f
}

func (f *Floor) Paint(m Material) { f.m.Store(m) }

func (f *Floor) Material() Material {
	if m, ok := f.m.Load().(Material); ok {
		return m
	}
	return MaterialDefault
}
