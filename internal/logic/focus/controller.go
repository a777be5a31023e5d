// Package focus implements the contrast-maximisation search: sweep the
// lens over its step range, track the sharpest position seen, stop when
// sharpness has been declining for long enough or the sweep runs out of
// range, then lock the lens at the best position.
package focus

import (
	"sync"

	"github.com/cjeanneret/FocusGo/internal/debug"
)

// Phase is the controller's lifecycle state.
type Phase int

const (
	Searching Phase = iota
	Converged
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case Converged:
		return "converged"
	default:
		return "unknown"
	}
}

// Actuator is what the controller needs from the lens driver.
type Actuator interface {
	SetPosition(step int) error
}

// Params tunes the sweep.
type Params struct {
	StartStep        int // first commanded step (and initial best)
	StepSize         int // sweep increment
	DeclineThreshold int // consecutive non-improving frames before stopping
	UpperBound       int // sweep stops before this step, headroom below the hardware max
}

// DefaultParams matches the reference IMX219-AF tuning.
func DefaultParams() Params {
	return Params{
		StartStep:        10,
		StepSize:         10,
		DeclineThreshold: 6,
		UpperBound:       1020,
	}
}

// State is the mutable search record. Snapshot returns copies of it for
// status reporting; all mutation happens through Tick and Reset.
type State struct {
	CurrentStep  int
	BestStep     int
	BestScore    float64
	LastScore    float64
	DeclineCount int
	Phase        Phase
}

// Controller drives the search. It owns the SearchState exclusively and
// issues at most one actuator command per tick, so bus access stays
// serialized by the session loop.
type Controller struct {
	mu          sync.Mutex
	actuator    Actuator
	params      Params
	state       State
	onConverged func(bestStep int, bestScore float64)
}

// NewController creates a controller in its initial searching state.
func NewController(a Actuator, p Params) *Controller {
	c := &Controller{actuator: a, params: p}
	c.state = initialState(p)
	return c
}

func initialState(p Params) State {
	return State{
		CurrentStep: p.StartStep,
		BestStep:    p.StartStep,
		Phase:       Searching,
	}
}

// OnConverged registers a callback fired exactly once per search
// session, when the controller commits to the best position.
// fn runs on the session goroutine during Tick and must not call back
// into the controller.
func (c *Controller) OnConverged(fn func(bestStep int, bestScore float64)) {
	c.mu.Lock()
	c.onConverged = fn
	c.mu.Unlock()
}

// Tick processes one frame's sharpness score.
//
// The termination check runs first, against the state left by the
// previous tick: enough consecutive declines, or the sweep reaching its
// upper bound, commits the lens to the best seen step and converges.
// Otherwise the current step is commanded, the observation is folded
// into the state and the sweep advances. Actuator errors propagate
// untouched; the caller decides whether the session survives.
func (c *Controller) Tick(score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == Converged {
		return nil
	}

	if c.state.DeclineCount >= c.params.DeclineThreshold ||
		c.state.CurrentStep >= c.params.UpperBound {
		if err := c.actuator.SetPosition(c.state.BestStep); err != nil {
			return err
		}
		c.state.Phase = Converged
		debug.Converged(c.state.BestStep, c.state.BestScore)
		if c.onConverged != nil {
			c.onConverged(c.state.BestStep, c.state.BestScore)
		}
		return nil
	}

	if err := c.actuator.SetPosition(c.state.CurrentStep); err != nil {
		return err
	}

	if score > c.state.BestScore {
		c.state.BestScore = score
		c.state.BestStep = c.state.CurrentStep
	}
	if score < c.state.LastScore {
		c.state.DeclineCount++
	} else {
		c.state.DeclineCount = 0
	}
	c.state.LastScore = score
	debug.Tick(c.state.CurrentStep, score, c.state.DeclineCount)
	c.state.CurrentStep += c.params.StepSize

	return nil
}

// Reset restarts the search. The resulting state is field-for-field
// identical to the state at construction.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = initialState(c.params)
	c.mu.Unlock()
	debug.Info("Autofocus restarted")
}

// Snapshot returns a copy of the current search state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase
}
