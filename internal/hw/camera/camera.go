package camera

import "gocv.io/x/gocv"

// Source is the high-level frame source interface used by the rest of
// the application. It represents an abstract camera, regardless of how
// frames are acquired (CSI/GStreamer, USB, file, test fake).
type Source interface {
	// Read fills dst with the next frame.
	// false signals end-of-stream or an acquisition fault.
	Read(dst *gocv.Mat) bool
	Close() error
}
