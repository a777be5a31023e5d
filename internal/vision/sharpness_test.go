package vision

import (
	"errors"
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestScore_EmptyFrame(t *testing.T) {
	e := NewEstimator()
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := e.Score(empty)
	if !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Score(empty) = %v, want ErrInvalidFrame", err)
	}
}

func TestScore_FlatFrameScoresZero(t *testing.T) {
	e := NewEstimator()
	// Uniform gray image: no edges, Laplacian response is zero everywhere.
	flat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 64, 64, gocv.MatTypeCV8UC3)
	defer flat.Close()

	score, err := e.Score(flat)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0 {
		t.Errorf("flat frame score = %v, want 0", score)
	}
}

func TestScore_EdgesScoreHigherThanFlat(t *testing.T) {
	e := NewEstimator()

	flat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 64, 64, gocv.MatTypeCV8UC3)
	defer flat.Close()

	// Hard vertical edge: left half black, right half white.
	edged := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	defer edged.Close()
	white := gocv.NewScalar(255, 255, 255, 0)
	right := edged.Region(image.Rect(32, 0, 64, 64))
	right.SetTo(white)
	right.Close()

	flatScore, err := e.Score(flat)
	if err != nil {
		t.Fatalf("Score(flat): %v", err)
	}
	edgeScore, err := e.Score(edged)
	if err != nil {
		t.Fatalf("Score(edged): %v", err)
	}
	if edgeScore <= flatScore {
		t.Errorf("edge score %v should exceed flat score %v", edgeScore, flatScore)
	}
}

func TestScore_DoesNotModifyInput(t *testing.T) {
	e := NewEstimator()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	before := frame.GetVecbAt(4, 4)
	if _, err := e.Score(frame); err != nil {
		t.Fatalf("Score: %v", err)
	}
	after := frame.GetVecbAt(4, 4)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input frame modified at channel %d: %d != %d", i, before[i], after[i])
		}
	}
}
