package input

import (
	"sort"

	"remake/internal/vehicle"
)

// Segment holds an input from At seconds until the next segment starts.
type Segment struct {
	At    float64
	Input vehicle.ControlInput
}

// Script replays timed segments against simulation time. Before the first
// segment the input is neutral.
type Script struct {
	segments []Segment
	now      float64
	cursor   int
}

func NewScript(segments []Segment) *Script {
	s := make([]Segment, len(segments))
	copy(s, segments)
	sort.SliceStable(s, func(i, j int) bool { return s[i].At < s[j].At })
	sc := &Script{segments: s, cursor: -1}
	sc.Advance(0)
	return sc
}

func (s *Script) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	for s.cursor+1 < len(s.segments) && s.segments[s.cursor+1].At <= s.now+1e-9 {
		s.cursor++
	}
}

func (s *Script) Sample() vehicle.ControlInput {
	if s.cursor < 0 {
		return vehicle.ControlInput{}
	}
	return s.segments[s.cursor].Input
}

// At reports the input in effect at time t without moving the cursor.
func (s *Script) At(t float64) vehicle.ControlInput {
	i := sort.Search(len(s.segments), func(i int) bool { return s.segments[i].At > t+1e-9 })
	if i == 0 {
		return vehicle.ControlInput{}
	}
	return s.segments[i-1].Input
}

// Now is the elapsed script time.
func (s *Script) Now() float64 { return s.now }

// Reset rewinds to t=0.
func (s *Script) Reset() {
	s.now = 0
	s.cursor = -1
	s.Advance(0)
}
