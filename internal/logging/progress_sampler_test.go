package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "batch") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(25)

	if !s.ShouldLog(0, "Classify M31") {
		t.Error("first event should log")
	}
	if s.ShouldLog(10, "Classify M31") {
		t.Error("same bucket should not log")
	}
	if !s.ShouldLog(30, "Classify M31") {
		t.Error("crossing a bucket should log")
	}
	if !s.ShouldLog(100, "Classify M31") {
		t.Error("completion should log")
	}
	if s.ShouldLog(100, "Classify M31") {
		t.Error("repeated completion should not log")
	}
	if !s.ShouldLog(0, "Classify darks") {
		t.Error("new batch name should log")
	}
}

func TestProgressSampler_Reset(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(55, "batch")
	s.Reset()
	if s.lastName != "" || s.lastBucket != -1 {
		t.Fatalf("reset did not clear state: %+v", s)
	}
	if !s.ShouldLog(55, "batch") {
		t.Error("expected log after reset")
	}
}
