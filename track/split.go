// Package track splits raw event tracks by channel (or percussion
// pitch) into STracks and aligns multi-track files on one timeline.
package track

import (
	"fmt"
	"math"

	"github.com/bwanab/music-build/event"
	"github.com/bwanab/music-build/group"
	"github.com/bwanab/music-build/model"
	"github.com/bwanab/music-build/util"
)

// Options steer one track's conversion. The lookup tables are passed in
// explicitly so conversions stay pure and tests stay parallel.
type Options struct {
	// ChordTolerance in ticks; onsets this close are one chord.
	ChordTolerance int64
	// Percussion forces the pitch-keyed path even off channel 9.
	Percussion bool
	// OffsetTicks is the track's lag behind the earliest track in the
	// file, from ComputeTrackOffsets. Added to every group's delay.
	OffsetTicks int64
	BPM         float64
	// Instruments maps program number to display name; may be empty.
	Instruments map[uint8]string
	// Percussions maps MIDI pitch to display name; may be empty.
	Percussions map[uint8]string
}

// Process converts one track's events into STracks keyed by channel, or
// by pitch for percussion content. Channel 9 notes always take the
// percussion path, Options.Percussion forces every note onto it, and a
// mixed track yields both kinds of keys.
func Process(events []model.RawEvent, tpqn uint32, opts Options) map[model.TrackKey]*model.STrack {
	se := event.IdentifySonorityEvents(events)
	trackName, programs := trackMeta(events)

	percussion := opts.Percussion || hasPercussionNotes(se.Notes)
	if !percussion {
		return splitByChannel(se, tpqn, opts, trackName, programs)
	}

	perc, rest := partitionPercussion(se, opts.Percussion)
	res := splitByPitch(perc, tpqn, opts)
	if len(rest.Notes) > 0 || len(rest.Controller) > 0 || len(rest.PitchBends) > 0 {
		for k, v := range splitByChannel(rest, tpqn, opts, trackName, programs) {
			res[k] = v
		}
	}
	return res
}

// splitByChannel is the regular path: group everything by channel and
// prepend each channel's leading silence so independently starting
// channels line up on a clock starting at zero.
func splitByChannel(se model.SonorityEvents, tpqn uint32, opts Options, trackName string, programs map[uint8]uint8) map[model.TrackKey]*model.STrack {
	byCh := make(map[uint8]model.SonorityEvents)
	for _, n := range se.Notes {
		g := byCh[n.Channel]
		g.Notes = append(g.Notes, n)
		byCh[n.Channel] = g
	}
	for _, c := range se.Controller {
		g := byCh[c.Channel]
		g.Controller = append(g.Controller, c)
		byCh[c.Channel] = g
	}
	for _, p := range se.PitchBends {
		g := byCh[p.Channel]
		g.PitchBends = append(g.PitchBends, p)
		byCh[p.Channel] = g
	}

	res := make(map[model.TrackKey]*model.STrack, len(byCh))
	for _, ch := range util.SortedKeys(byCh) {
		g := byCh[ch]
		sons := group.Sonorities(g, tpqn, opts.ChordTolerance, ch)
		delay := opts.OffsetTicks
		if len(g.Notes) > 0 {
			delay += firstStart(g.Notes)
		}
		sons = prependDelay(sons, delay, tpqn, ch)

		program := programs[ch]
		res[model.ChannelKey(ch)] = &model.STrack{
			Name:       channelName(opts.Instruments, program, trackName, ch),
			Kind:       model.KindInstrument,
			TPQN:       tpqn,
			Program:    program,
			BPM:        opts.BPM,
			Sonorities: sons,
		}
	}
	return res
}

// splitByPitch is the percussion path: every pitch is its own
// instrument, so each gets its own STrack.
func splitByPitch(se model.SonorityEvents, tpqn uint32, opts Options) map[model.TrackKey]*model.STrack {
	byKey := make(map[uint8][]model.NoteInterval)
	for _, n := range se.Notes {
		byKey[n.Key] = append(byKey[n.Key], n)
	}

	res := make(map[model.TrackKey]*model.STrack, len(byKey))
	for _, key := range util.SortedKeys(byKey) {
		notes := byKey[key]
		ch := notes[0].Channel
		g := model.SonorityEvents{Notes: notes}
		sons := group.Sonorities(g, tpqn, opts.ChordTolerance, ch)
		delay := opts.OffsetTicks + firstStart(notes)
		sons = prependDelay(sons, delay, tpqn, ch)

		res[model.PercussionKey(key)] = &model.STrack{
			Name:       percussionName(opts.Percussions, key),
			Kind:       model.KindPercussion,
			TPQN:       tpqn,
			BPM:        opts.BPM,
			Sonorities: sons,
		}
	}
	return res
}

// partitionPercussion splits percussion notes from everything else:
// channel 9 notes, or every note when the caller forces percussion.
// Controllers and bends always take the channel-keyed path, since
// percussion STracks are keyed per pitch and cannot own a
// channel-wide event.
func partitionPercussion(se model.SonorityEvents, force bool) (perc, rest model.SonorityEvents) {
	for _, n := range se.Notes {
		if force || n.Channel == model.PercussionChannel {
			perc.Notes = append(perc.Notes, n)
		} else {
			rest.Notes = append(rest.Notes, n)
		}
	}
	rest.Controller = se.Controller
	rest.PitchBends = se.PitchBends
	return perc, rest
}

func hasPercussionNotes(notes []model.NoteInterval) bool {
	for _, n := range notes {
		if n.Channel == model.PercussionChannel {
			return true
		}
	}
	return false
}

func firstStart(notes []model.NoteInterval) int64 {
	first := notes[0].Start
	for _, n := range notes[1:] {
		if n.Start < first {
			first = n.Start
		}
	}
	return first
}

// prependDelay inserts the leading silence, in quarter notes, that
// places this group correctly on the global timeline.
func prependDelay(sons []model.Sonority, delayTicks int64, tpqn uint32, ch uint8) []model.Sonority {
	if delayTicks <= 0 {
		return sons
	}
	delay := float64(delayTicks) / float64(tpqn)
	if math.Abs(delay) < 1e-9 {
		return sons
	}
	return append([]model.Sonority{model.Rest{Dur: delay, Ch: ch}}, sons...)
}

func channelName(instruments map[uint8]string, program uint8, trackName string, ch uint8) string {
	if name, ok := instruments[program]; ok {
		return name
	}
	return fmt.Sprintf("%s Ch%d", trackName, ch)
}

func percussionName(percussions map[uint8]string, key uint8) string {
	if name, ok := percussions[key]; ok {
		return name
	}
	return fmt.Sprintf("Percussion %d", key)
}

// trackMeta pulls the sequence name and each channel's last program
// change out of the raw events.
func trackMeta(events []model.RawEvent) (string, map[uint8]uint8) {
	name := "Track"
	programs := make(map[uint8]uint8)
	for _, ev := range events {
		switch ev.Kind {
		case model.KindSeqName:
			if ev.Text != "" {
				name = ev.Text
			}
		case model.KindProgram:
			programs[ev.Channel] = ev.Program
		}
	}
	return name, programs
}
