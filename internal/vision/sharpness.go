// Package vision computes the scalar sharpness metric driving the
// focus search. Higher values mean a sharper image.
package vision

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrInvalidFrame is returned for an empty or zero-area frame.
var ErrInvalidFrame = errors.New("vision: invalid frame")

// Estimator scores frames with a Laplacian edge-response metric.
// It is stateless; a single value exists so collaborators can be
// swapped for fakes in tests.
type Estimator struct{}

// NewEstimator creates a sharpness estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Score returns the mean Laplacian response of the frame's luminance.
// The Laplacian is accumulated in unsigned 16-bit so hard edges do not
// clip at 255. Pure: the input Mat is not modified.
func (e *Estimator) Score(frame gocv.Mat) (float64, error) {
	if frame.Empty() || frame.Rows() == 0 || frame.Cols() == 0 {
		return 0, ErrInvalidFrame
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV16U, 1, 1, 0, gocv.BorderDefault)

	return lap.Mean().Val1, nil
}
