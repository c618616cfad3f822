package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bwanab/music-build/event"
	"github.com/bwanab/music-build/group"
	"github.com/bwanab/music-build/model"
)

func TestNoteEmitsOnOffPair(t *testing.T) {
	events := Sonority(model.Note{Key: 60, Dur: 0.25, Vel: 90, Ch: 2}, 960)

	assert := assert.New(t)
	assert.Len(events, 2)
	assert.Equal(model.RawEvent{Kind: model.KindNoteOn, Channel: 2, Note: 60, Velocity: 90}, events[0])
	assert.Equal(model.RawEvent{Kind: model.KindNoteOff, Delta: 240, Channel: 2, Note: 60}, events[1])
}

func TestRestEmitsPureTimeAdvance(t *testing.T) {
	events := Sonority(model.Rest{Dur: 1, Ch: 1}, 960)

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(model.KindNoteOff, events[0].Kind)
	assert.Equal(uint8(0), events[0].Note)
	assert.Equal(uint32(960), events[0].Delta)
}

func TestChordGroupsOnsBeforeOffs(t *testing.T) {
	c := model.NewChord([]model.Note{
		{Key: 60, Vel: 80}, {Key: 64, Vel: 80}, {Key: 67, Vel: 80},
	}, 60, model.QualityMajor, 80, 0).WithDuration(1)
	events := Sonority(c, 960)

	assert := assert.New(t)
	assert.Len(events, 6)
	for i := 0; i < 3; i++ {
		assert.Equal(model.KindNoteOn, events[i].Kind)
		assert.Equal(uint32(0), events[i].Delta)
	}
	assert.Equal(model.KindNoteOff, events[3].Kind)
	assert.Equal(uint32(960), events[3].Delta) // first off carries the duration
	assert.Equal(uint32(0), events[4].Delta)
	assert.Equal(uint32(0), events[5].Delta)
}

func TestArpeggioFlattensToSequentialNotes(t *testing.T) {
	a := model.Arpeggio{Seq: []model.Note{
		{Key: 60, Dur: 0.5, Vel: 80},
		{Key: 64, Dur: 0.5, Vel: 80},
	}}
	events := Sonority(a, 960)

	assert := assert.New(t)
	assert.Len(events, 4)
	assert.Equal(uint8(60), events[0].Note)
	assert.Equal(uint32(480), events[1].Delta)
	assert.Equal(uint8(64), events[2].Note)
}

func TestControllerAndBendAreInstantaneous(t *testing.T) {
	cc := Sonority(model.Controller{CC: 64, Value: 127, Ch: 3}, 960)
	pb := Sonority(model.PitchBend{Value: 10000, Ch: 3}, 960)

	assert := assert.New(t)
	assert.Len(cc, 1)
	assert.Equal(model.RawEvent{Kind: model.KindController, Channel: 3, CC: 64, CCValue: 127}, cc[0])
	assert.Len(pb, 1)
	assert.Equal(model.RawEvent{Kind: model.KindPitchBend, Channel: 3, Bend: 10000}, pb[0])
}

func TestSuppressRetriggersCollapsesOffOnPair(t *testing.T) {
	events := []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Note: 60},
		{Kind: model.KindNoteOn, Delta: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Note: 60},
	}
	out := SuppressRetriggers(events)

	assert := assert.New(t)
	assert.Len(out, 3)
	assert.Equal(model.KindNoteOn, out[0].Kind)
	// the off/on pair became one zero-pitch marker keeping the delta
	assert.Equal(model.KindNoteOff, out[1].Kind)
	assert.Equal(uint8(0), out[1].Note)
	assert.Equal(uint32(240), out[1].Delta)
	assert.Equal(totalDelta(events), totalDelta(out))
}

func TestSuppressRetriggersIgnoresDifferentPitch(t *testing.T) {
	events := []model.RawEvent{
		{Kind: model.KindNoteOff, Delta: 240, Note: 60},
		{Kind: model.KindNoteOn, Delta: 0, Note: 62, Velocity: 80},
	}
	out := SuppressRetriggers(events)
	assert.Equal(t, events, out)
}

func TestSuppressRetriggersIgnoresLaterOn(t *testing.T) {
	events := []model.RawEvent{
		{Kind: model.KindNoteOff, Delta: 240, Note: 60},
		{Kind: model.KindNoteOn, Delta: 10, Note: 60, Velocity: 80},
	}
	out := SuppressRetriggers(events)
	assert.Equal(t, events, out)
}

func TestSuppressRetriggersSpansChordNoteOffRun(t *testing.T) {
	// C major chord into a sustained C: the other chord tones' offs sit
	// between the C off and the C re-strike, all at the same time
	events := []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOn, Delta: 0, Note: 64, Velocity: 80},
		{Kind: model.KindNoteOn, Delta: 0, Note: 67, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 960, Note: 60},
		{Kind: model.KindNoteOff, Delta: 0, Note: 64},
		{Kind: model.KindNoteOff, Delta: 0, Note: 67},
		{Kind: model.KindNoteOn, Delta: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 240, Note: 60},
	}
	out := SuppressRetriggers(events)

	assert := assert.New(t)
	assert.Len(out, 7)

	marker := out[3]
	assert.Equal(model.KindNoteOff, marker.Kind)
	assert.Equal(uint8(0), marker.Note)
	assert.Equal(uint32(960), marker.Delta)

	restrikes := 0
	for _, ev := range out {
		if ev.Kind == model.KindNoteOn && ev.Note == 60 {
			restrikes++
		}
	}
	assert.Equal(1, restrikes)
	assert.Equal(totalDelta(events), totalDelta(out))
}

func TestTrackEventsFrameTheSonorities(t *testing.T) {
	st := &model.STrack{
		Name: "melody",
		Kind: model.KindInstrument,
		TPQN: 960,
		Sonorities: []model.Sonority{
			model.Note{Key: 60, Dur: 1, Vel: 80, Ch: 4},
		},
	}
	events := Track(st, 960)

	assert := assert.New(t)
	assert.Equal(model.KindSeqName, events[0].Kind)
	assert.Equal("melody", events[0].Text)
	assert.Equal(model.KindProgram, events[1].Kind)
	assert.Equal(uint8(4), events[1].Channel)
	assert.Equal(model.KindTrackEnd, events[len(events)-1].Kind)
}

func TestPercussionTrackGetsBankSelect(t *testing.T) {
	st := &model.STrack{
		Name: "kick",
		Kind: model.KindPercussion,
		Sonorities: []model.Sonority{
			model.Note{Key: 35, Dur: 0.5, Vel: 100, Ch: model.PercussionChannel},
		},
	}
	events := Track(st, 960)

	assert := assert.New(t)
	assert.Equal(model.KindController, events[1].Kind)
	assert.Equal(uint8(0), events[1].CC)
	assert.Equal(uint8(PercussionBank), events[1].CCValue)
	assert.Equal(uint8(model.PercussionChannel), events[1].Channel)
}

// Round trip: sonorities → events → pairing → grouping reproduces the
// same types, durations and pitches.
func TestSonorityRoundTrip(t *testing.T) {
	c := model.NewChord([]model.Note{
		{Key: 60, Vel: 80, Ch: 0}, {Key: 64, Vel: 80, Ch: 0}, {Key: 67, Vel: 80, Ch: 0},
	}, 60, model.QualityMajor, 80, 0).WithDuration(1)

	in := []model.Sonority{
		model.Note{Key: 72, Dur: 0.5, Vel: 90, Ch: 0},
		model.Rest{Dur: 0.25, Ch: 0},
		c,
		model.Note{Key: 62, Dur: 0.25, Vel: 70, Ch: 0},
	}

	var events []model.RawEvent
	for _, s := range in {
		events = append(events, Sonority(s, 960)...)
	}
	se := event.IdentifySonorityEvents(events)
	out := group.Sonorities(se, 960, 0, 0)

	assert := assert.New(t)
	assert.Len(out, len(in))

	n0, ok := out[0].(model.Note)
	assert.True(ok)
	assert.Equal(uint8(72), n0.Key)
	assert.InDelta(0.5, n0.Dur, 1e-9)

	r, ok := out[1].(model.Rest)
	assert.True(ok)
	assert.InDelta(0.25, r.Dur, 1e-9)

	c2, ok := out[2].(model.Chord)
	assert.True(ok)
	assert.Equal(model.QualityMajor, c2.Quality)
	assert.InDelta(1.0, c2.Dur, 1e-9)

	n3, ok := out[3].(model.Note)
	assert.True(ok)
	assert.Equal(uint8(62), n3.Key)
	assert.InDelta(0.25, n3.Dur, 1e-9)
}

func totalDelta(events []model.RawEvent) uint64 {
	var total uint64
	for _, ev := range events {
		total += uint64(ev.Delta)
	}
	return total
}
