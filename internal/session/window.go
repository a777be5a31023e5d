package session

import "gocv.io/x/gocv"

// Key codes delivered by the OpenCV window.
// Enter arrives as 10 on Linux/GTK and 13 elsewhere.
const (
	keyEsc     = 27
	keyEnterLF = 10
	keyEnterCR = 13
	keyRestart = 'r'
)

// Window is the Display implementation backed by a gocv window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named preview window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(frame gocv.Mat) {
	w.win.IMShow(frame)
}

// NextEvent pumps the window event loop for ~16ms and maps the pressed
// key to a session event.
func (w *Window) NextEvent() Event {
	switch w.win.WaitKey(16) {
	case keyEsc:
		return EventQuit
	case keyRestart, keyEnterLF, keyEnterCR:
		return EventReset
	}
	return EventNone
}

func (w *Window) Open() bool {
	return w.win.IsOpen()
}

func (w *Window) Close() error {
	return w.win.Close()
}
