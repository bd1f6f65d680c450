package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the batch name or the percentage bucket changes.
type ProgressSampler struct {
	bucketSize float64
	lastName   string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%) or when the batch name changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. Percent can be
// negative to indicate "unknown"; name is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(percent float64, name string) bool {
	if s == nil {
		return true
	}
	name = strings.TrimSpace(name)
	emit := false
	if name != "" && name != s.lastName {
		s.lastName = name
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		bucket := int(percent / s.bucketSize)
		if percent >= 100 {
			bucket = int(100 / s.bucketSize)
		}
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state (e.g. when a new batch starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastName = ""
	s.lastBucket = -1
}
