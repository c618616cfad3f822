// Package group segments paired note intervals into a chronological
// sonority stream: notes, chords, rests, plus instantaneous controller
// and pitch bend markers merged in by time.
package group

import (
	"sort"

	"github.com/bwanab/music-build/chord"
	"github.com/bwanab/music-build/model"
)

// placed is a sonority pinned to its absolute tick for the final merge.
type placed struct {
	tick    int64
	control bool
	son     model.Sonority
}

// Sonorities sweeps the sorted note boundaries, classifies each segment
// by its active-note count, and merges in controller/pitch-bend markers
// by absolute time. tolerance widens a segment's left edge so onsets
// within tolerance ticks of each other still count as one chord.
//
// Tie-break at equal tick: controller and pitch bend sonorities come
// before note-derived ones; among equals input order is kept.
func Sonorities(se model.SonorityEvents, tpqn uint32, tolerance int64, ch uint8) []model.Sonority {
	var out []placed

	bounds := boundaries(se.Notes, tolerance)
	for i := 1; i < len(bounds); i++ {
		prev, cur := bounds[i-1], bounds[i]
		if cur == prev {
			continue
		}
		dur := float64(cur-prev) / float64(tpqn)
		active := activeNotes(se.Notes, prev, cur, tolerance)
		out = append(out, placed{tick: prev, son: segment(active, dur, ch)})
	}

	for _, ce := range se.Controller {
		out = append(out, placed{
			tick:    ce.AbsTicks,
			control: true,
			son:     model.Controller{CC: ce.CC, Value: ce.Value, Ch: ce.Channel},
		})
	}
	for _, pb := range se.PitchBends {
		out = append(out, placed{
			tick:    pb.AbsTicks,
			control: true,
			son:     model.PitchBend{Value: pb.Value, Ch: pb.Channel},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].tick != out[j].tick {
			return out[i].tick < out[j].tick
		}
		return out[i].control && !out[j].control
	})

	res := make([]model.Sonority, 0, len(out))
	for _, p := range out {
		res = append(res, p.son)
	}
	return res
}

// boundaries collects the sorted set of unique interval start/end
// times, then coalesces boundaries closer together than the tolerance
// so near-simultaneous onsets form one segment instead of a sliver
// followed by the chord.
func boundaries(notes []model.NoteInterval, tolerance int64) []int64 {
	seen := make(map[int64]bool, 2*len(notes))
	var ticks []int64
	for _, n := range notes {
		for _, t := range [2]int64{n.Start, n.End} {
			if !seen[t] {
				seen[t] = true
				ticks = append(ticks, t)
			}
		}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	if tolerance <= 0 || len(ticks) == 0 {
		return ticks
	}
	coalesced := ticks[:1]
	for _, t := range ticks[1:] {
		if t-coalesced[len(coalesced)-1] > tolerance {
			coalesced = append(coalesced, t)
		}
	}
	return coalesced
}

// activeNotes returns the intervals sounding through (prev, cur). The
// tolerance only widens the left edge: a note starting just after prev
// is still treated as part of the segment's chord.
func activeNotes(notes []model.NoteInterval, prev, cur, tolerance int64) []model.NoteInterval {
	var active []model.NoteInterval
	for _, n := range notes {
		if n.Start <= prev+tolerance && n.End >= cur {
			active = append(active, n)
		}
	}
	return active
}

func segment(active []model.NoteInterval, dur float64, ch uint8) model.Sonority {
	switch len(active) {
	case 0:
		return model.Rest{Dur: dur, Ch: ch}
	case 1:
		n := active[0]
		return model.Note{Key: n.Key, Dur: dur, Vel: n.Velocity, Ch: n.Channel}
	default:
		keys := make([]uint8, len(active))
		vels := make([]uint8, len(active))
		for i, n := range active {
			keys[i] = n.Key
			vels[i] = n.Velocity
		}
		ch := active[0].Channel
		c, err := chord.Recognize(keys, vels, ch)
		if err != nil {
			c = chord.Raw(keys, vels, ch)
		}
		return c.WithDuration(dur)
	}
}
