package e2e_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bwanab/music-build/midifile"
	"github.com/bwanab/music-build/model"
	"github.com/bwanab/music-build/track"
)

// Full pipeline: raw events → STracks → .mid on disk → re-read →
// STracks again. Types, pitches and durations must survive.
func TestFileRoundTrip(t *testing.T) {
	events := []model.RawEvent{
		{Kind: model.KindSeqName, Text: "e2e"},
		{Kind: model.KindNoteOn, Delta: 0, Channel: 0, Note: 60, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 480, Channel: 0, Note: 60},
		{Kind: model.KindNoteOn, Delta: 240, Channel: 0, Note: 64, Velocity: 80},
		{Kind: model.KindNoteOn, Delta: 0, Channel: 0, Note: 67, Velocity: 80},
		{Kind: model.KindNoteOn, Delta: 0, Channel: 0, Note: 71, Velocity: 80},
		{Kind: model.KindNoteOff, Delta: 960, Channel: 0, Note: 64},
		{Kind: model.KindNoteOff, Delta: 0, Channel: 0, Note: 67},
		{Kind: model.KindNoteOff, Delta: 0, Channel: 0, Note: 71},
	}

	first, err := track.ProcessAll([][]model.RawEvent{events}, 960, track.Options{BPM: 120})
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	path := filepath.Join(t.TempDir(), "roundtrip.mid")
	assert.NoError(t, midifile.Write(path, first, 960, 120))

	f, err := midifile.Read(path)
	assert.NoError(t, err)
	assert.Equal(t, uint32(960), f.TPQN)
	assert.InDelta(t, 120.0, f.BPM, 1e-6)

	second, err := track.ProcessAll(f.Tracks, f.TPQN, track.Options{BPM: f.BPM})
	assert.NoError(t, err)

	want := first[model.ChannelKey(0)]
	got := second[model.ChannelKey(0)]
	assert.NotNil(t, got)

	wantShows := shows(want.Sonorities)
	gotShows := shows(got.Sonorities)
	assert.Equal(t, wantShows, gotShows)
}

func TestPercussionFileRoundTrip(t *testing.T) {
	events := []model.RawEvent{
		{Kind: model.KindNoteOn, Delta: 0, Channel: 9, Note: 35, Velocity: 100},
		{Kind: model.KindNoteOff, Delta: 240, Channel: 9, Note: 35},
		{Kind: model.KindNoteOn, Delta: 240, Channel: 9, Note: 35, Velocity: 100},
		{Kind: model.KindNoteOff, Delta: 240, Channel: 9, Note: 35},
	}

	first, err := track.ProcessAll([][]model.RawEvent{events}, 960, track.Options{BPM: 100})
	assert.NoError(t, err)
	assert.Contains(t, first, model.PercussionKey(35))

	path := filepath.Join(t.TempDir(), "drums.mid")
	assert.NoError(t, midifile.Write(path, first, 960, 100))

	f, err := midifile.Read(path)
	assert.NoError(t, err)

	second, err := track.ProcessAll(f.Tracks, f.TPQN, track.Options{BPM: f.BPM})
	assert.NoError(t, err)
	assert.Contains(t, second, model.PercussionKey(35))

	want := shows(first[model.PercussionKey(35)].Sonorities)
	got := shows(second[model.PercussionKey(35)].Sonorities)
	assert.Equal(t, want, got)
}

func shows(sons []model.Sonority) []string {
	out := make([]string, len(sons))
	for i, s := range sons {
		out[i] = s.Show()
	}
	return out
}
