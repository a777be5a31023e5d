package camera

import (
	"strings"
	"testing"

	"github.com/cjeanneret/FocusGo/internal/config"
)

func TestPipeline_ContainsConfiguredValues(t *testing.T) {
	p := Pipeline(config.CaptureConfig{
		CaptureWidth:  1920,
		CaptureHeight: 1080,
		DisplayWidth:  960,
		DisplayHeight: 540,
		Framerate:     30,
		FlipMethod:    2,
	})

	wants := []string{
		"nvarguscamerasrc",
		"width=(int)1920",
		"height=(int)1080",
		"framerate=(fraction)30/1",
		"flip-method=2",
		"width=(int)960",
		"height=(int)540",
		"format=(string)BGR ! appsink",
	}
	for _, w := range wants {
		if !strings.Contains(p, w) {
			t.Errorf("pipeline missing %q:\n%s", w, p)
		}
	}
}

func TestPipeline_CaptureAndDisplayBranches(t *testing.T) {
	p := Pipeline(config.CaptureConfig{
		CaptureWidth:  1280,
		CaptureHeight: 720,
		DisplayWidth:  1280,
		DisplayHeight: 720,
		Framerate:     60,
	})

	// NVMM capture branch must precede the nvvidconv display branch.
	nvmm := strings.Index(p, "memory:NVMM")
	conv := strings.Index(p, "nvvidconv")
	if nvmm < 0 || conv < 0 || nvmm > conv {
		t.Errorf("pipeline branches out of order:\n%s", p)
	}
}
