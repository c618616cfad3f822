// Package chord recognizes chord shapes in unordered pitch sets.
package chord

import (
	"errors"
	"sort"

	"github.com/bwanab/music-build/model"
)

// ErrUnrecognized reports that no shape in the table fits the pitch set.
// Callers fall back to Raw.
var ErrUnrecognized = errors.New("chord: no shape fits pitch set")

// Shape is one candidate chord form: a quality plus its interval set in
// semitones above the root. All table shapes are rooted at offset 0.
type Shape struct {
	Quality   model.Quality
	Intervals []uint8
}

// Shapes is the fixed candidate table, scored in order; on a score tie
// the earlier entry wins.
var Shapes = []Shape{
	{model.QualityMajor, []uint8{0, 4, 7}},
	{model.QualityMinor, []uint8{0, 3, 7}},
	{model.QualityDominant7, []uint8{0, 4, 7, 10}},
	{model.QualityMajor7, []uint8{0, 4, 7, 11}},
	{model.QualityMinor7, []uint8{0, 3, 7, 10}},
	{model.QualityDiminished, []uint8{0, 3, 6}},
	{model.QualityAugmented, []uint8{0, 4, 8}},
	{model.QualitySus4, []uint8{0, 5, 7}},
	{model.QualitySus2, []uint8{0, 2, 7}},
}

// Recognize scores the pitch set against every shape in the table and
// returns the best fit with its additions and omissions filled in. The
// chord's velocity is the floor of the mean input velocity and its
// channel comes from the caller. Duration is left for the caller to set.
//
// Degenerate input (fewer than two distinct pitches) returns
// ErrUnrecognized so the caller can fall back to a raw chord.
func Recognize(keys []uint8, vels []uint8, ch uint8) (model.Chord, error) {
	uniq := uniqueSorted(keys)
	if len(uniq) < 2 {
		return model.Chord{}, ErrUnrecognized
	}

	root := uniq[0]
	offsets := make(map[uint8]bool, len(uniq))
	for _, k := range uniq {
		offsets[k-root] = true
	}

	best := -1.0
	var bestShape Shape
	for _, shape := range Shapes {
		score := scoreShape(shape, offsets)
		if score > best {
			best = score
			bestShape = shape
		}
	}

	c := model.NewChord(realize(uniq, keys, vels, ch), root, bestShape.Quality, meanVelocity(vels), ch)
	for _, k := range uniq {
		if !intervalIn(bestShape.Intervals, k-root) {
			c.Additions = append(c.Additions, k)
		}
	}
	for _, iv := range bestShape.Intervals {
		if !offsets[iv] {
			c.Omissions = append(c.Omissions, iv)
		}
	}
	return c, nil
}

// Raw builds the unnamed fallback chord holding exactly the input notes.
func Raw(keys []uint8, vels []uint8, ch uint8) model.Chord {
	uniq := uniqueSorted(keys)
	return model.NewChord(realize(uniq, keys, vels, ch), 0, model.QualityUnknown, meanVelocity(vels), ch)
}

// scoreShape rewards matched intervals, coverage of the shape, and a
// sounding root.
func scoreShape(shape Shape, offsets map[uint8]bool) float64 {
	matched := 0
	for _, iv := range shape.Intervals {
		if offsets[iv] {
			matched++
		}
	}
	score := float64(matched) + float64(matched)/float64(len(shape.Intervals))
	if offsets[0] {
		score++
	}
	return score
}

// realize pairs each unique key with the velocity it arrived with.
// uniq is sorted while keys/vels keep caller order, so match by key.
func realize(uniq []uint8, keys []uint8, vels []uint8, ch uint8) []model.Note {
	velOf := make(map[uint8]uint8, len(keys))
	for i, k := range keys {
		if _, ok := velOf[k]; ok {
			continue
		}
		if i < len(vels) {
			velOf[k] = vels[i]
		} else {
			velOf[k] = 64
		}
	}
	notes := make([]model.Note, len(uniq))
	for i, k := range uniq {
		vel, ok := velOf[k]
		if !ok {
			vel = 64
		}
		notes[i] = model.Note{Key: k, Vel: vel, Ch: ch}
	}
	return notes
}

func meanVelocity(vels []uint8) uint8 {
	if len(vels) == 0 {
		return 0
	}
	var sum int
	for _, v := range vels {
		sum += int(v)
	}
	return uint8(sum / len(vels))
}

func intervalIn(intervals []uint8, iv uint8) bool {
	for _, v := range intervals {
		if v == iv {
			return true
		}
	}
	return false
}

func uniqueSorted(keys []uint8) []uint8 {
	seen := make(map[uint8]bool, len(keys))
	var uniq []uint8
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	return uniq
}
