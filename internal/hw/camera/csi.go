package camera

import (
	"fmt"

	"github.com/cjeanneret/FocusGo/internal/config"
	"github.com/cjeanneret/FocusGo/internal/debug"
	"gocv.io/x/gocv"
)

// Pipeline builds the nvarguscamerasrc GStreamer string for a CSI
// camera on Jetson Nano. The capture branch runs in NVMM memory; the
// display branch is converted to BGR for OpenCV.
func Pipeline(c config.CaptureConfig) string {
	return fmt.Sprintf(
		"nvarguscamerasrc ! "+
			"video/x-raw(memory:NVMM), width=(int)%d, height=(int)%d, "+
			"format=(string)NV12, framerate=(fraction)%d/1 ! "+
			"nvvidconv flip-method=%d ! "+
			"video/x-raw, width=(int)%d, height=(int)%d, format=(string)BGRx ! "+
			"videoconvert ! video/x-raw, format=(string)BGR ! appsink",
		c.CaptureWidth, c.CaptureHeight, c.Framerate, c.FlipMethod,
		c.DisplayWidth, c.DisplayHeight,
	)
}

// CSICamera is a Source backed by a GStreamer capture through gocv.
type CSICamera struct {
	cap *gocv.VideoCapture
}

// NewCSICamera opens the CSI camera with the configured pipeline.
func NewCSICamera(cfg config.CaptureConfig) (*CSICamera, error) {
	pipeline := Pipeline(cfg)
	debug.Verbose("GStreamer pipeline: %s", pipeline)

	cap, err := gocv.OpenVideoCaptureWithAPI(pipeline, gocv.VideoCaptureGstreamer)
	if err != nil {
		return nil, fmt.Errorf("open CSI camera: %w (check the CSI ribbon / nvargus daemon)", err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("CSI camera pipeline did not open")
	}

	return &CSICamera{cap: cap}, nil
}

func (c *CSICamera) Read(dst *gocv.Mat) bool {
	return c.cap.Read(dst)
}

func (c *CSICamera) Close() error {
	return c.cap.Close()
}
