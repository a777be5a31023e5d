// Package session drives one autofocus run: it pulls frames from the
// camera, shows them, feeds sharpness scores to the focus controller
// one tick per frame, and reacts to quit/reset events.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cjeanneret/FocusGo/internal/debug"
	"github.com/cjeanneret/FocusGo/internal/hw/camera"
	"github.com/cjeanneret/FocusGo/internal/logic/focus"
	"gocv.io/x/gocv"
)

// Event is a tagged input event polled once per tick.
type Event int

const (
	EventNone Event = iota
	EventQuit
	EventReset
)

// ErrAcquisition signals that the frame source failed; the session
// terminates cleanly instead of retrying.
var ErrAcquisition = errors.New("session: frame acquisition failed")

// Scorer computes the sharpness of a frame.
type Scorer interface {
	Score(frame gocv.Mat) (float64, error)
}

// Display renders frames and produces input events. The concrete
// implementation is an OpenCV window; tests use a fake.
type Display interface {
	Show(frame gocv.Mat)
	NextEvent() Event
	Open() bool
	Close() error
}

// Session ties the collaborators into the per-frame loop.
type Session struct {
	source   camera.Source
	display  Display
	scorer   Scorer
	ctrl     *focus.Controller
	external <-chan Event // extra event source (web UI); may be nil
}

// New creates a session. external may be nil when no out-of-band event
// source (such as the web UI) is wired in.
func New(source camera.Source, display Display, scorer Scorer, ctrl *focus.Controller, external <-chan Event) *Session {
	return &Session{
		source:   source,
		display:  display,
		scorer:   scorer,
		ctrl:     ctrl,
		external: external,
	}
}

// Run processes frames until the display closes, a quit event arrives,
// the context is cancelled, or a fatal error occurs. One frame is fully
// processed before the next is requested, so actuator writes stay
// serialized.
func (s *Session) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	debug.Section("Starting autofocus session")

	for s.display.Open() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !s.source.Read(&frame) {
			debug.Error(ErrAcquisition)
			return ErrAcquisition
		}

		s.display.Show(frame)

		if s.ctrl.Phase() == focus.Searching {
			score, err := s.scorer.Score(frame)
			if err != nil {
				return fmt.Errorf("score frame: %w", err)
			}
			if err := s.ctrl.Tick(score); err != nil {
				return fmt.Errorf("focus tick: %w", err)
			}
		}

		if ev := s.pollEvent(); ev == EventQuit {
			debug.Info("Quit requested")
			return nil
		} else if ev == EventReset {
			s.ctrl.Reset()
		}
	}

	debug.Info("Display closed")
	return nil
}

// pollEvent merges the out-of-band channel with the display's input.
// Display events win ties so a quit from the keyboard is never delayed.
func (s *Session) pollEvent() Event {
	if ev := s.display.NextEvent(); ev != EventNone {
		return ev
	}
	if s.external != nil {
		select {
		case ev := <-s.external:
			return ev
		default:
		}
	}
	return EventNone
}
