// Package emit converts sonorities back into delta-timed MIDI events.
package emit

import (
	"math"

	"github.com/bwanab/music-build/model"
)

// PercussionBank is the control-change bank value selecting the drum
// kit sound set on the percussion channel.
const PercussionBank = 120

// Sonority converts one sonority into its event run. Delta times keep
// MIDI's convention: a chord's note-ons all land at delta 0, and the
// first note-off carries the whole duration.
func Sonority(s model.Sonority, tpqn uint32) []model.RawEvent {
	switch v := s.(type) {
	case model.Note:
		return noteEvents(v, tpqn)
	case model.Rest:
		return []model.RawEvent{timeMarker(durTicks(v.Dur, tpqn), v.Ch)}
	case model.Chord:
		return chordEvents(v, tpqn)
	case model.Arpeggio:
		var out []model.RawEvent
		for _, n := range v.Seq {
			out = append(out, noteEvents(n, tpqn)...)
		}
		return out
	case model.Controller:
		return []model.RawEvent{{Kind: model.KindController, Channel: v.Ch, CC: v.CC, CCValue: v.Value}}
	case model.PitchBend:
		return []model.RawEvent{{Kind: model.KindPitchBend, Channel: v.Ch, Bend: v.Value}}
	}
	return nil
}

// Track flattens a whole STrack: sequence-name header, a program
// change (or the drum bank select for percussion), the sonority events,
// then end-of-track. The retrigger post-pass runs over the result.
func Track(t *model.STrack, tpqn uint32) []model.RawEvent {
	events := []model.RawEvent{{Kind: model.KindSeqName, Text: t.Name}}

	ch := trackChannel(t)
	if t.Kind == model.KindPercussion {
		events = append(events, model.RawEvent{
			Kind: model.KindController, Channel: ch, CC: 0, CCValue: PercussionBank,
		})
	} else {
		events = append(events, model.RawEvent{
			Kind: model.KindProgram, Channel: ch, Program: t.Program,
		})
	}

	for _, s := range t.Sonorities {
		events = append(events, Sonority(s, tpqn)...)
	}
	events = append(events, model.RawEvent{Kind: model.KindTrackEnd})
	return SuppressRetriggers(events)
}

func noteEvents(n model.Note, tpqn uint32) []model.RawEvent {
	return []model.RawEvent{
		{Kind: model.KindNoteOn, Channel: n.Ch, Note: n.Key, Velocity: n.Vel},
		{Kind: model.KindNoteOff, Delta: durTicks(n.Dur, tpqn), Channel: n.Ch, Note: n.Key},
	}
}

// chordEvents groups every note-on first, then every note-off, with the
// first note-off carrying the chord's duration.
func chordEvents(c model.Chord, tpqn uint32) []model.RawEvent {
	notes := c.Notes()
	if len(notes) == 0 {
		return []model.RawEvent{timeMarker(durTicks(c.Dur, tpqn), c.Ch)}
	}
	var out []model.RawEvent
	for _, n := range notes {
		out = append(out, model.RawEvent{
			Kind: model.KindNoteOn, Channel: c.Ch, Note: n.Key, Velocity: n.Vel,
		})
	}
	for i, n := range notes {
		var delta uint32
		if i == 0 {
			delta = durTicks(c.Dur, tpqn)
		}
		out = append(out, model.RawEvent{
			Kind: model.KindNoteOff, Delta: delta, Channel: c.Ch, Note: n.Key,
		})
	}
	return out
}

// timeMarker is a pure time advance: a zero-pitch, zero-velocity
// note-off whose only job is carrying delta ticks.
func timeMarker(delta uint32, ch uint8) model.RawEvent {
	return model.RawEvent{Kind: model.KindNoteOff, Delta: delta, Channel: ch}
}

func durTicks(dur float64, tpqn uint32) uint32 {
	return uint32(math.Round(dur * float64(tpqn)))
}

func trackChannel(t *model.STrack) uint8 {
	for _, s := range t.Sonorities {
		switch s.(type) {
		case model.Rest:
			continue
		default:
			return s.Channel()
		}
	}
	if t.Kind == model.KindPercussion {
		return model.PercussionChannel
	}
	if len(t.Sonorities) > 0 {
		return t.Sonorities[0].Channel()
	}
	return 0
}
