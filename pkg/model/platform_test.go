package model

import (
	"math"
	"testing"
)

func TestNewPlatform_SortsDescending(t *testing.T) {
	p, err := NewPlatform([]float64{0.5, 2.0, 1.0})
	if err != nil {
		t.Fatalf("NewPlatform: %v", err)
	}

	want := []float64{2.0, 1.0, 0.5}
	for i, s := range p.Speeds {
		if s != want[i] {
			t.Errorf("Speeds[%d] = %v, want %v", i, s, want[i])
		}
	}
	if math.Abs(p.SM-3.5) > 1e-12 {
		t.Errorf("SM = %v, want 3.5", p.SM)
	}
}

func TestNewPlatform_DoesNotAliasInput(t *testing.T) {
	speeds := []float64{1.0, 2.0}
	p, err := NewPlatform(speeds)
	if err != nil {
		t.Fatalf("NewPlatform: %v", err)
	}
	speeds[0] = 99
	if p.Speeds[0] != 2.0 {
		t.Errorf("platform speeds shared backing array with caller input")
	}
}

func TestNewPlatform_Rejections(t *testing.T) {
	if _, err := NewPlatform(nil); CodeOf(err) != ErrInvalidInput {
		t.Errorf("empty speeds: expected INVALID_INPUT, got %v", err)
	}
	if _, err := NewPlatform([]float64{1.0, 0}); CodeOf(err) != ErrInvalidInput {
		t.Errorf("zero speed: expected INVALID_INPUT, got %v", err)
	}
	if _, err := NewPlatform([]float64{1.0, -0.5}); CodeOf(err) != ErrInvalidInput {
		t.Errorf("negative speed: expected INVALID_INPUT, got %v", err)
	}
}

func TestPlatform_MultiCore(t *testing.T) {
	single, err := NewPlatform([]float64{1.0})
	if err != nil {
		t.Fatalf("NewPlatform: %v", err)
	}
	if single.MultiCore() {
		t.Error("single core reported as multicore")
	}

	dual, err := NewPlatform([]float64{1.0, 1.0})
	if err != nil {
		t.Fatalf("NewPlatform: %v", err)
	}
	if !dual.MultiCore() {
		t.Error("dual core reported as single core")
	}
}
