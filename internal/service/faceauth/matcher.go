package faceauth

import (
	"errors"
	"math"
)

// UnknownLabel is reported when no reference is within the threshold.
const UnknownLabel = "unknown"

// DefaultThreshold is the normalised embedding distance at or under which two
// faces are taken to be the same person.
const DefaultThreshold = 0.6

type Descriptor []float64

type LabeledDescriptors struct {
	Label       string
	Descriptors []Descriptor
}

type Match struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// Matcher finds the nearest labelled reference for a query descriptor.
type Matcher struct {
	refs      []LabeledDescriptors
	threshold float64
}

func NewMatcher(refs []LabeledDescriptors, threshold float64) (*Matcher, error) {
	if len(refs) == 0 {
		return nil, errors.New("faceauth: matcher needs at least one reference")
	}
	for _, r := range refs {
		if len(r.Descriptors) == 0 {
			return nil, errors.New("faceauth: reference " + r.Label + " has no descriptors")
		}
	}
	return &Matcher{refs: refs, threshold: threshold}, nil
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindBestMatch returns the label whose descriptors are on average closest to
// q. Matches further than the threshold come back labelled UnknownLabel.
func (m *Matcher) FindBestMatch(q Descriptor) Match {
	best := Match{Label: UnknownLabel, Distance: math.Inf(1)}
	for _, r := range m.refs {
		var sum float64
		for _, d := range r.Descriptors {
			sum += EuclideanDistance(q, d)
		}
		mean := sum / float64(len(r.Descriptors))
		if mean < best.Distance {
			best = Match{Label: r.Label, Distance: mean}
		}
	}
	if best.Distance > m.threshold {
		best.Label = UnknownLabel
	}
	return best
}

// Accepts reports whether match admits a voter.
func (m *Matcher) Accepts(match Match) bool {
	return match.Label != UnknownLabel && match.Distance <= m.threshold
}

// EuclideanDistance returns +Inf for descriptors of different lengths.
func EuclideanDistance(a, b Descriptor) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
