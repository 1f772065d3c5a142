package metrics

import (
	"sort"

	"github.com/san-kum/vehiclelab/internal/physics"
)

// Sample is one recorded frame of a single body.
type Sample struct {
	Time                  float64      `json:"time"`
	Position              physics.Vec3 `json:"position"`
	Speed                 float64      `json:"speed"`
	Velocity              physics.Vec3 `json:"velocity"`
	AccelerationMagnitude float64      `json:"acceleration_magnitude"`
	Acceleration          physics.Vec3 `json:"acceleration"`
	Power                 float64      `json:"power"`
	CumulativeEnergy      float64      `json:"cumulative_energy"`
}

// Series holds the samples of every body, keyed by body id.
type Series map[string][]Sample

// BodyIDs returns the body ids in sorted order.
func (s Series) BodyIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the total number of samples across bodies.
func (s Series) Len() int {
	n := 0
	for _, samples := range s {
		n += len(samples)
	}
	return n
}

// Clone copies the series so later appends do not leak into the copy.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for id, samples := range s {
		c := make([]Sample, len(samples))
		copy(c, samples)
		out[id] = c
	}
	return out
}

// Speeds returns the speed column of one body.
func (s Series) Speeds(id string) []float64 {
	samples := s[id]
	out := make([]float64, len(samples))
	for i, smp := range samples {
		out[i] = smp.Speed
	}
	return out
}
