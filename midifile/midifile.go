// Package midifile bridges standard MIDI files and the neutral
// RawEvent representation the conversion engine works on.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/bwanab/music-build/constants"
	"github.com/bwanab/music-build/emit"
	"github.com/bwanab/music-build/model"
)

// File is a parsed MIDI file reduced to what the engine needs.
type File struct {
	TPQN   uint32
	BPM    float64
	Tracks [][]model.RawEvent
}

// ReadSMF parses a .mid file.
func ReadSMF(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// the smf parser panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

// Read parses a .mid file into RawEvent tracks.
func Read(filepath string) (*File, error) {
	s, err := ReadSMF(filepath)
	if err != nil {
		return nil, err
	}
	return FromSMF(s), nil
}

// FromSMF reduces a parsed SMF to RawEvent tracks, picking up the tick
// resolution and the first tempo event found.
func FromSMF(s *smf.SMF) *File {
	f := &File{TPQN: constants.DefaultTPQN, BPM: constants.DefaultBPM}
	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		f.TPQN = ticks.Ticks4th()
	}

	tempoSeen := false
	for _, tr := range s.Tracks {
		var events []model.RawEvent
		for _, ev := range tr {
			events = append(events, reduceEvent(ev, f, &tempoSeen))
		}
		f.Tracks = append(f.Tracks, events)
	}
	return f
}

func reduceEvent(ev smf.Event, f *File, tempoSeen *bool) model.RawEvent {
	out := model.RawEvent{Kind: model.KindOther, Delta: ev.Delta}

	var (
		ch, key, vel uint8
		cc, ccval    uint8
		prog         uint8
		rel          int16
		abs          uint16
		text         string
		bpm          float64
	)
	msg := ev.Message
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		out.Kind = model.KindNoteOn
		out.Channel, out.Note, out.Velocity = ch, key, vel
	case msg.GetNoteOff(&ch, &key, &vel):
		out.Kind = model.KindNoteOff
		out.Channel, out.Note, out.Velocity = ch, key, vel
	case msg.GetControlChange(&ch, &cc, &ccval):
		out.Kind = model.KindController
		out.Channel, out.CC, out.CCValue = ch, cc, ccval
	case msg.GetPitchBend(&ch, &rel, &abs):
		out.Kind = model.KindPitchBend
		out.Channel, out.Bend = ch, abs
	case msg.GetProgramChange(&ch, &prog):
		out.Kind = model.KindProgram
		out.Channel, out.Program = ch, prog
	case msg.GetMetaTrackName(&text):
		out.Kind = model.KindSeqName
		out.Text = text
	case msg.GetMetaTempo(&bpm):
		if !*tempoSeen {
			f.BPM = bpm
			*tempoSeen = true
		}
	case msg.Is(smf.MetaEndOfTrackMsg):
		out.Kind = model.KindTrackEnd
	}
	return out
}

// Write renders STracks back into a .mid file, one SMF track per
// STrack, keys in ascending order so output is deterministic.
func Write(filepath string, tracks map[model.TrackKey]*model.STrack, tpqn uint32, bpm float64) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(tpqn)

	for i, k := range sortedTrackKeys(tracks) {
		st := tracks[k]
		events := emit.Track(st, tpqn)
		tr := smf.Track{}
		if i == 0 {
			tr.Add(0, smf.MetaTempo(bpm))
		}
		appendEvents(&tr, events)
		s.Add(tr)
	}
	return s.WriteFile(filepath)
}

// appendEvents encodes RawEvents into an smf.Track, carrying the delta
// of anything unencodable forward so timing is preserved.
func appendEvents(tr *smf.Track, events []model.RawEvent) {
	var pending uint32
	closed := false
	for _, ev := range events {
		delta := pending + ev.Delta
		pending = 0
		switch ev.Kind {
		case model.KindNoteOn:
			tr.Add(delta, midi.NoteOn(ev.Channel, ev.Note, ev.Velocity))
		case model.KindNoteOff:
			tr.Add(delta, midi.NoteOff(ev.Channel, ev.Note))
		case model.KindController:
			tr.Add(delta, midi.ControlChange(ev.Channel, ev.CC, ev.CCValue))
		case model.KindPitchBend:
			tr.Add(delta, midi.Pitchbend(ev.Channel, int16(int32(ev.Bend)-8192)))
		case model.KindProgram:
			tr.Add(delta, midi.ProgramChange(ev.Channel, ev.Program))
		case model.KindSeqName:
			tr.Add(delta, smf.MetaTrackSequenceName(ev.Text))
		case model.KindTrackEnd:
			tr.Close(delta)
			closed = true
		default:
			pending = delta
		}
	}
	if !closed {
		tr.Close(pending)
	}
}

func sortedTrackKeys(tracks map[model.TrackKey]*model.STrack) []model.TrackKey {
	keys := make([]model.TrackKey, 0, len(tracks))
	for k := range tracks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Percussion != keys[j].Percussion {
			return !keys[i].Percussion
		}
		return keys[i].Num < keys[j].Num
	})
	return keys
}
